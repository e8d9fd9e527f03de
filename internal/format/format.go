package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for values that cannot be displayed.
const Placeholder = "--"

var locale = language.EuropeanPortuguese

// Currency formats an amount in euros using Portuguese number conventions.
func Currency(v *float64) string {
	if v == nil || !finite(*v) {
		return Placeholder
	}
	p := message.NewPrinter(locale)
	return p.Sprintf("%v €", number.Decimal(*v, number.Scale(2)))
}

// Amount is Currency for a plain value.
func Amount(v float64) string {
	return Currency(&v)
}

// Percent formats a fraction as a percentage with two decimals (0.2 -> "20.00%").
func Percent(fraction *float64) string {
	if fraction == nil || !finite(*fraction) {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", *fraction*100)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
