package models

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are defined at start-up and never
// mutated afterwards.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      int             `json:"rating"`
	Reviews     int             `json:"reviews"`
	Details     []string        `json:"details"`
}

// CartLine is one line item. Quantity is always at least 1.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price × quantity for the line.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are derived from cart contents and never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Address is the shape shared by shipping and billing addresses.
type Address struct {
	FullName      string `json:"fullName"`
	StreetAddress string `json:"streetAddress"`
	Apartment     string `json:"apartment"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
}

// DefaultCountry is preselected on fresh address forms.
const DefaultCountry = "United States"

// Countries lists the supported shipping destinations in display order.
var Countries = []string{
	"United States",
	"Canada",
	"United Kingdom",
	"Australia",
	"Germany",
	"France",
	"Japan",
	"China",
	"India",
	"Brazil",
}

// NewAddress returns an empty address with the default country selected.
func NewAddress() Address {
	return Address{Country: DefaultCountry}
}

// PaymentDetails only ever lives in the payment-stage form state.
type PaymentDetails struct {
	CardNumber  string `json:"cardNumber"`
	CardName    string `json:"cardName"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	CVV         string `json:"cvv"`
}

// User is the signed-in shopper.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is the confirmation record produced by a completed checkout.
type Order struct {
	OrderNumber     string     `json:"orderNumber"`
	OrderDate       string     `json:"orderDate"`
	UserID          string     `json:"userId"`
	ShippingAddress *Address   `json:"shippingAddress,omitempty"`
	Lines           []CartLine `json:"lines"`
	Totals          Totals     `json:"totals"`
}

// OrderSummary is an order-history entry.
type OrderSummary struct {
	ID     string             `json:"id"`
	Date   string             `json:"date"`
	Status string             `json:"status"`
	Total  decimal.Decimal    `json:"total"`
	Items  []OrderSummaryItem `json:"items"`
}

// OrderSummaryItem is a line of an order-history entry.
type OrderSummaryItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order statuses
const (
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
)
