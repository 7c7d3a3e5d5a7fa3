package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/cart"
)

func TestBuildQuote_SubtotalPlusShipping(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", UnitPrice: 400, Quantity: 2}, // 800
	}
	cairo := &backend.City{ID: "c1", Name: "Cairo", Price: 50}

	q := BuildQuote(lines, cairo, 0)

	assert.Equal(t, 800.0, q.Subtotal)
	assert.Equal(t, 50.0, q.Shipping)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 850.0, q.Total)
}

func TestBuildQuote_NoCityMeansNoShipping(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 120, Quantity: 1}}

	q := BuildQuote(lines, nil, 0)

	assert.Equal(t, 0.0, q.Shipping)
	assert.Equal(t, 120.0, q.Total)
}

func TestBuildQuote_DiscountSubtracts(t *testing.T) {
	lines := []cart.Line{
		{UnitPrice: 400, Quantity: 2},
		{UnitPrice: 120, Quantity: 1},
	}
	city := &backend.City{Name: "Giza", Price: 40}

	q := BuildQuote(lines, city, 100)

	assert.Equal(t, 920.0, q.Subtotal)
	assert.Equal(t, 860.0, q.Total)
}

func TestBuildQuote_TotalMayGoNegative(t *testing.T) {
	lines := []cart.Line{{UnitPrice: 50, Quantity: 1}}
	city := &backend.City{Name: "Cairo", Price: 20}

	q := BuildQuote(lines, city, 100)

	assert.Equal(t, -30.0, q.Total)
}

func TestBuildQuote_EmptyCart(t *testing.T) {
	q := BuildQuote(nil, nil, 0)

	assert.Equal(t, 0.0, q.Subtotal)
	assert.Equal(t, 0.0, q.Total)
}

func TestPromoStatus_IsSettled(t *testing.T) {
	assert.False(t, PromoEmpty.IsSettled())
	assert.False(t, PromoValidating.IsSettled())
	assert.True(t, PromoApplied.IsSettled())
	assert.True(t, PromoInvalid.IsSettled())
}
