package reports

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	thousand  = decimal.NewFromInt(1000)
	idPrinter = message.NewPrinter(language.Indonesian)
)

// FormatNumber renders a whole rupiah amount with Indonesian digit grouping.
func FormatNumber(amount decimal.Decimal) string {
	return idPrinter.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatIDR renders amount as rupiah currency, e.g. "Rp 45.000".
func FormatIDR(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-Rp " + FormatNumber(amount.Neg())
	}
	return "Rp " + FormatNumber(amount)
}

// FormatCompact shortens amounts of a thousand or more, e.g. "45k" or "12.5k".
func FormatCompact(amount decimal.Decimal) string {
	if amount.GreaterThanOrEqual(thousand) {
		return amount.Div(thousand).String() + "k"
	}
	return amount.String()
}
