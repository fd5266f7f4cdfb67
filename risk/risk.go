package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// VolumePrecision is the number of decimal places every scaled volume is
// rounded to.
const VolumePrecision = 6

// Mode selects how the next hedge volume is derived from the previous one.
type Mode int

const (
	Multiply Mode = iota
	Add
)

func (m Mode) String() string {
	switch m {
	case Multiply:
		return "multiply"
	case Add:
		return "add"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "multiply"/"mult"/"x" and "add"/"plus"/"+".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiply", "mult", "x", "":
		return Multiply, nil
	case "add", "plus", "+":
		return Add, nil
	}
	return 0, fmt.Errorf("unknown volume mode %q", s)
}

// Policy is the volume ladder rule. Factor is used by Multiply, Increment by Add.
type Policy struct {
	Mode      Mode
	Factor    decimal.Decimal
	Increment decimal.Decimal
}

// NextVolume computes the volume of the next hedge step from the last one.
// A non-positive result falls back to fallback (the cycle's initial volume)
// so a misconfigured factor or increment can never collapse the ladder.
func NextVolume(last decimal.Decimal, p Policy, fallback decimal.Decimal) decimal.Decimal {
	var next decimal.Decimal
	switch p.Mode {
	case Add:
		next = last.Add(p.Increment)
	default:
		next = last.Mul(p.Factor)
	}
	next = next.Round(VolumePrecision)
	if !next.IsPositive() {
		return fallback
	}
	return next
}
