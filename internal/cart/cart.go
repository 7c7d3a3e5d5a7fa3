// Package cart holds the shopper's client-side cart: one line per product
// variant, persisted as a whole document on every mutation.
package cart

import (
	"math"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
)

// Line is one row in the cart. UnitPrice is sale-adjusted at add time;
// MaxQuantity is the variant's stock ceiling captured at add time and is not
// re-validated against live stock afterwards.
type Line struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unitPrice"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity"`
	MaxQuantity  int     `json:"maxQuantity"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	CategoryID   string  `json:"categoryId,omitempty"`
	CollectionID string  `json:"collectionId,omitempty"`
}

// Matches reports whether the line is the given variant. The
// (product, color, size) triple is the cart's uniqueness key.
func (l Line) Matches(productID, color, size string) bool {
	return l.ProductID == productID && l.Color == color && l.Size == size
}

// effectivePrice is the unit price shown to the shopper: the backend's
// precomputed sale price when present, otherwise the list price with the sale
// percentage applied and rounded to the nearest currency unit.
func effectivePrice(p backend.Product) float64 {
	if p.SalePercentage > 0 {
		if p.SalePrice > 0 {
			return p.SalePrice
		}
		return math.Round(p.Price * (1 - p.SalePercentage/100))
	}
	return p.Price
}

// resolveVariant walks the product's color→size→quantity structure. Stock
// falls back to 1 when the variant is unresolvable or reports zero, so a
// sold-out variant still yields a one-quantity line.
func resolveVariant(p backend.Product, color, size string) (stock int, image string) {
	stock, image = 1, p.Image
	for _, c := range p.Colors {
		if c.Name != color {
			continue
		}
		if c.Image != "" {
			image = c.Image
		}
		for _, s := range c.Sizes {
			if s.Size == size && s.Quantity > 0 {
				stock = s.Quantity
			}
		}
	}
	return stock, image
}
