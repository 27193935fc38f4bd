package order

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var indonesian = message.NewPrinter(language.Indonesian)

// Rupiah renders an integer amount as Indonesian currency with no decimals,
// e.g. 50000 becomes "Rp 50.000".
func Rupiah(amount int) string {
	return indonesian.Sprintf("Rp %d", amount)
}
