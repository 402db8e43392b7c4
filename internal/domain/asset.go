package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType classifies a held asset.
type AssetType string

const AssetTypeStock AssetType = "STOCK"

// OrderType is the side of an order.
type OrderType string

const (
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// ParseOrderType parses an order type, case-insensitively.
func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(strings.ToUpper(strings.TrimSpace(s)))
	if t != OrderTypeBuy && t != OrderTypeSell {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderType, s)
	}
	return t, nil
}

// Order is a buy or sell of an asset.
type Order struct {
	ID        string
	AssetID   string
	Type      OrderType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}

// Validate validates the order fields.
func (o *Order) Validate() error {
	if o.Type != OrderTypeBuy && o.Type != OrderTypeSell {
		return ErrInvalidOrderType
	}
	if err := ValidateQuantity(o.Quantity); err != nil {
		return err
	}
	return ValidateAmount(o.Price)
}

// signedQuantity is positive for buys and negative for sells.
func (o *Order) signedQuantity() decimal.Decimal {
	if o.Type == OrderTypeSell {
		return o.Quantity.Neg()
	}
	return o.Quantity
}

// Asset is a ticker held by a user together with its order history.
type Asset struct {
	ID        string
	UserID    string
	Ticker    string
	Type      AssetType
	Orders    []*Order
	CreatedAt time.Time
}

// Quantity returns the net quantity held.
func (a *Asset) Quantity() decimal.Decimal {
	qty := decimal.Zero
	for _, o := range a.Orders {
		qty = qty.Add(o.signedQuantity())
	}
	return qty
}

// Invested returns the net amount paid for the position.
func (a *Asset) Invested() decimal.Decimal {
	total := decimal.Zero
	for _, o := range a.Orders {
		total = total.Add(o.signedQuantity().Mul(o.Price))
	}
	return total
}

// LastOrderPrice returns the price of the most recent order.
func (a *Asset) LastOrderPrice() (decimal.Decimal, bool) {
	var last *Order
	for _, o := range a.Orders {
		if last == nil || !o.Date.Before(last.Date) {
			last = o
		}
	}
	if last == nil {
		return decimal.Zero, false
	}
	return last.Price, true
}

// Quote is a current market price for a ticker.
type Quote struct {
	Symbol    string
	Price     decimal.Decimal
	LogoURL   string
	FetchedAt time.Time
}

// PriceSource tells where a holding's valuation price came from.
type PriceSource string

const (
	PriceSourceQuote     PriceSource = "quote"
	PriceSourceLastOrder PriceSource = "last_order"
	PriceSourceNone      PriceSource = "none"
)

// Holding is the valuation of one asset.
type Holding struct {
	Asset       *Asset
	Quote       *Quote
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	PriceSource PriceSource
	Invested    decimal.Decimal
	Value       decimal.Decimal
	Profit      decimal.Decimal
}

// Valuate values an asset. A nil or non-positive quote falls back to the
// last known order price.
func Valuate(asset *Asset, quote *Quote) Holding {
	h := Holding{
		Asset:       asset,
		Quantity:    asset.Quantity(),
		Invested:    asset.Invested(),
		PriceSource: PriceSourceNone,
	}

	if quote != nil && quote.Price.IsPositive() {
		h.Quote = quote
		h.Price = quote.Price
		h.PriceSource = PriceSourceQuote
	} else if price, ok := asset.LastOrderPrice(); ok {
		h.Price = price
		h.PriceSource = PriceSourceLastOrder
	}

	h.Value = h.Quantity.Mul(h.Price)
	h.Profit = h.Value.Sub(h.Invested)

	return h
}

// Portfolio is the valuation of all of a user's assets.
type Portfolio struct {
	Holdings      []Holding
	TotalInvested decimal.Decimal
	TotalValue    decimal.Decimal
	TotalProfit   decimal.Decimal
}

// NewPortfolio totals a set of holdings.
func NewPortfolio(holdings []Holding) *Portfolio {
	p := &Portfolio{
		Holdings:      holdings,
		TotalInvested: decimal.Zero,
		TotalValue:    decimal.Zero,
		TotalProfit:   decimal.Zero,
	}
	for _, h := range holdings {
		p.TotalInvested = p.TotalInvested.Add(h.Invested)
		p.TotalValue = p.TotalValue.Add(h.Value)
	}
	p.TotalProfit = p.TotalValue.Sub(p.TotalInvested)
	return p
}
