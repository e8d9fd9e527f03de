package margin

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds x to cents, half away from zero.
func Round2(x float64) float64 {
	return RoundTo(x, 2)
}

// RoundTo rounds x to the given number of decimal places, half away from zero.
// The value is taken at its shortest decimal representation, so 1.005 rounds up.
// Non-finite values are returned unchanged.
func RoundTo(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}
