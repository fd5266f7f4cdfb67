package strategy

// BarProcessor is implemented by every strategy in this package.
type BarProcessor interface {
	ProcessBar(high, low, close, volume float64)
}
