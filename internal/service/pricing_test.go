package service

import (
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutTotals(t *testing.T) {
	lines := []models.CartLine{{Product: testProduct("1", 100), Quantity: 2}}

	totals := DefaultPricing().CheckoutTotals(lines)

	assert.Equal(t, "200.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "16.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "226.00", totals.Total.StringFixed(2))
}

func TestCartTotalsHaveNoTax(t *testing.T) {
	lines := []models.CartLine{{Product: testProduct("1", 100), Quantity: 2}}

	totals := DefaultPricing().CartTotals(lines)

	assert.True(t, totals.Tax.IsZero())
	assert.Equal(t, "210.00", totals.Total.StringFixed(2))
}

func TestTotals_EmptyCartHasNoShipping(t *testing.T) {
	totals := DefaultPricing().CheckoutTotals(nil)

	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCheckoutTotals_TaxRoundsToCents(t *testing.T) {
	p := models.Product{ID: "x", Price: decimal.RequireFromString("249.99")}
	totals := DefaultPricing().CheckoutTotals([]models.CartLine{{Product: p, Quantity: 1}})

	assert.Equal(t, "20.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "279.99", totals.Total.StringFixed(2))
}
