// Package checkout derives the numbers shown to the shopper and submitted
// with the order: subtotal, shipping by city, backend-confirmed promocode
// discount, and the grand total.
package checkout

import (
	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/cart"
)

type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// BuildQuote prices a cart snapshot. city may be nil (no shipping fee yet).
// Total is not clamped at zero when the discount exceeds subtotal plus
// shipping.
func BuildQuote(lines []cart.Line, city *backend.City, discount float64) Quote {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}

	var shipping float64
	if city != nil {
		shipping = city.Price
	}

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal + shipping - discount,
	}
}
