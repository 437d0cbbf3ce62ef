// Package currency renders decimal amounts for humans (prompts, PDFs, CLI).
// JSON responses never go through here; they use plain fixed-point strings.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders d in the given ISO 4217 currency, e.g. "$1,234.50".
// Unknown codes fall back to the plain two-digit amount followed by the code.
func Format(d decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return d.StringFixed(2) + " " + code
	}
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// FormatString is Format for amounts that already travel as decimal strings.
// Unparseable input is returned as is.
func FormatString(amount, code string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return Format(d, code)
}
