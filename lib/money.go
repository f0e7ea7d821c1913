package lib

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frenchPrinter = message.NewPrinter(language.French)

// FormatAmount renders a price rounded to whole units with French digit grouping.
func FormatAmount(amount decimal.Decimal) string {
	return frenchPrinter.Sprintf("%d", amount.Round(0).IntPart())
}
