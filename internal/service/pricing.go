package service

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Pricing derives order totals from cart lines.
type Pricing struct {
	ShippingFlatFee decimal.Decimal
	TaxRate         decimal.Decimal
}

// DefaultPricing charges a flat 10.00 shipping and 8% tax.
func DefaultPricing() Pricing {
	return Pricing{
		ShippingFlatFee: decimal.NewFromInt(10),
		TaxRate:         decimal.RequireFromString("0.08"),
	}
}

// Subtotal is Σ price × quantity.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// CartTotals are the cart-page totals: no tax.
func (p Pricing) CartTotals(lines []models.CartLine) models.Totals {
	subtotal := Subtotal(lines)
	shipping := p.shipping(subtotal)
	return models.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      decimal.Zero,
		Total:    subtotal.Add(shipping),
	}
}

// CheckoutTotals add tax on the subtotal, rounded to cents.
func (p Pricing) CheckoutTotals(lines []models.CartLine) models.Totals {
	subtotal := Subtotal(lines)
	shipping := p.shipping(subtotal)
	tax := subtotal.Mul(p.TaxRate).Round(2)
	return models.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

func (p Pricing) shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return p.ShippingFlatFee
	}
	return decimal.Zero
}
