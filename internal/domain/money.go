package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// Format renders the amount with the currency symbol using tag's number conventions.
func (m Money) Format(tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(m.Currency.Amount(m.Amount.InexactFloat64())))
}

func (p Product) PriceIn(unit currency.Unit) Money {
	return Money{Amount: p.Price, Currency: unit}
}
