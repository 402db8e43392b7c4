package domain

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for display when no currency is configured.
const DefaultCurrency = "BRL"

// FormatMoney renders an amount in the given ISO currency, e.g. "R$1.234,56".
// Unknown currency codes fall back to DefaultCurrency.
func FormatMoney(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	c := money.GetCurrency(code)
	if c == nil {
		code = DefaultCurrency
		c = money.GetCurrency(code)
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
