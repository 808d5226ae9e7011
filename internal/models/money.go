package models

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount in reais for display, e.g. in templates and CSV exports.
func FormatBRL(amount decimal.Decimal) string {
	return moneyPrinter.Sprint(currency.Symbol(currency.BRL.Amount(amount.Round(2).InexactFloat64())))
}
