package checkout

import (
	"github.com/shopspring/decimal"
)

var (
	// ShippingFee is the flat shipping charge applied to every order.
	ShippingFee = decimal.NewFromInt(10)

	// TaxRate applies to the merchandise subtotal only; shipping is not taxed.
	TaxRate = decimal.RequireFromString("0.08")
)

// Item is one cart line submitted for checkout: the unit price captured at
// the time the cart was built.
type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Pricing is the computed totals for an order.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// PriceItems computes order totals: merchandise subtotal, flat shipping,
// 8% tax on the subtotal rounded half-up to cents, and the grand total.
func PriceItems(items []Item) Pricing {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	// decimal.Round rounds half away from zero, which is round-half-up for
	// the non-negative amounts here.
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(ShippingFee).Add(tax)

	return Pricing{
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Total:    total,
	}
}

// Cents converts a dollar amount to integer cents, rounding half up.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
