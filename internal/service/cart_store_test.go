package service

import (
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price int64) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: decimal.NewFromInt(price), Category: "Test"}
}

func TestAddToCart_MergesSameProduct(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 2)
	c.AddToCart(testProduct("2", 5), 1)
	c.AddToCart(testProduct("1", 10), 3)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].Product.ID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "2", lines[1].Product.ID)
	assert.Equal(t, 6, c.ItemCount())
}

func TestAddToCart_CoercesQuantity(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 0)
	c.AddToCart(testProduct("2", 10), -4)

	for _, l := range c.Lines() {
		assert.Equal(t, 1, l.Quantity)
	}
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"positive", 7, 7},
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCartStore()
			c.AddToCart(testProduct("1", 10), 2)
			c.UpdateQuantity("1", tt.in)
			assert.Equal(t, tt.want, c.Lines()[0].Quantity)
		})
	}
}

func TestUpdateQuantity_UnknownIDIsIgnored(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 2)
	c.UpdateQuantity("missing", 5)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 2, c.ItemCount())
}

func TestRemoveThenAdd(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 4)
	c.RemoveFromCart("1")
	assert.True(t, c.IsEmpty())

	c.AddToCart(testProduct("1", 10), 2)
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestClearCart(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 1)
	c.AddToCart(testProduct("2", 10), 1)
	c.ClearCart()

	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.ItemCount())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 1)

	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestRemoveOrdered(t *testing.T) {
	c := NewCartStore()
	c.AddToCart(testProduct("1", 10), 2)
	ordered := c.Lines()

	c.AddToCart(testProduct("1", 10), 1)
	c.AddToCart(testProduct("2", 5), 3)
	c.RemoveOrdered(ordered)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "2", lines[1].Product.ID)
	assert.Equal(t, 3, lines[1].Quantity)

	c.RemoveOrdered([]models.CartLine{{Product: testProduct("1", 10), Quantity: 5}, {Product: testProduct("x", 1), Quantity: 1}})
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "2", c.Lines()[0].Product.ID)
}
