// Package money formats and rounds Rupiah amounts.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Scale is the number of decimal places amounts are stored with.
const Scale = 2

var printer = message.NewPrinter(language.Indonesian)

// Round rounds d to the storage scale.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// FormatIDR renders d as "Rp 1.100.000" (fractions are shown only when present).
func FormatIDR(d decimal.Decimal) string {
	d = Round(d)
	if d.Equal(d.Truncate(0)) {
		return printer.Sprintf("Rp %d", d.IntPart())
	}
	f, _ := d.Float64()
	return printer.Sprintf("Rp %.2f", f)
}
