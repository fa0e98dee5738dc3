package textutil

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vnPrinter = message.NewPrinter(language.Vietnamese)

// FormatMoney renders an amount in dong with Vietnamese digit grouping,
// e.g. 175000 -> "175.000 đ".
func FormatMoney(amount int64) string {
	return vnPrinter.Sprintf("%d đ", amount)
}

// FormatNumber renders a meter index or area, dropping a zero fraction.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return vnPrinter.Sprintf("%d", int64(v))
	}
	return vnPrinter.Sprintf("%.1f", v)
}
