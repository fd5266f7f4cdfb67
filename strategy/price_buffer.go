package strategy

// priceBuffer keeps a rolling window of closes and gives the entry filters
// a cheap trend read while the indicator suite is still warming up.
type priceBuffer struct {
	max int
	buf []float64
}

func newPriceBuffer(max int) *priceBuffer {
	if max <= 0 {
		max = 16
	}
	return &priceBuffer{max: max}
}

func (p *priceBuffer) Add(v float64) {
	p.buf = append(p.buf, v)
	if len(p.buf) > p.max {
		p.buf = p.buf[len(p.buf)-p.max:]
	}
}

func (p *priceBuffer) Len() int { return len(p.buf) }

// window returns the last lookback+1 values (fewer when the buffer is short).
func (p *priceBuffer) window(lookback int) []float64 {
	if lookback >= len(p.buf) {
		return p.buf
	}
	return p.buf[len(p.buf)-lookback-1:]
}

// Trend scores up and down closes over the last six moves: +1, -1 or 0.
func (p *priceBuffer) Trend() int {
	if len(p.buf) < 2 {
		return 0
	}
	w := p.window(6)
	score := 0
	for i := 1; i < len(w); i++ {
		switch {
		case w[i] > w[i-1]:
			score++
		case w[i] < w[i-1]:
			score--
		}
	}
	threshold := (len(w) - 1) / 3
	if threshold < 2 {
		threshold = 2
	}
	switch {
	case score >= threshold:
		return 1
	case score <= -threshold:
		return -1
	}
	return 0
}

// Slope is the least-squares slope over the last eight moves.
func (p *priceBuffer) Slope() float64 {
	if len(p.buf) < 2 {
		return 0
	}
	w := p.window(8)
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range w {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	n := float64(len(w))
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}
