package store

import "github.com/shopspring/decimal"

var TaxRate = decimal.RequireFromString("0.10")

// Summary is the checkout breakdown. Shipping is always free.
type Summary struct {
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

// Summarize rounds every amount half up to cents. Total is the sum of the
// rounded amounts so the figures shown always add up.
func Summarize(lines []Line) Summary {
	subtotal := totalPrice(lines).Round(2)
	shipping := decimal.Zero
	tax := subtotal.Mul(TaxRate).Round(2)
	return Summary{
		TotalItems: totalItems(lines),
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		Total:      subtotal.Add(shipping).Add(tax),
	}
}
