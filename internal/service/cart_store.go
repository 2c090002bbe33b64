package service

import (
	"sync"

	"storefront/internal/models"
	"storefront/internal/util"
)

// CartStore holds the line items of one session in insertion order.
// At most one line exists per product id and every quantity is >= 1.
type CartStore struct {
	mu    sync.RWMutex
	lines []models.CartLine
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

// AddToCart appends a line for product, or grows the existing one.
func (c *CartStore) AddToCart(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	util.CartMutationsTotal.WithLabelValues("add").Inc()

	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return
	}
	c.lines = append(c.lines, models.CartLine{Product: cloneProduct(product), Quantity: quantity})
}

// UpdateQuantity sets a line's quantity to max(1, quantity). Unknown ids
// are ignored; removal goes through RemoveFromCart.
func (c *CartStore) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity = quantity
		util.CartMutationsTotal.WithLabelValues("update").Inc()
	}
}

// RemoveFromCart drops the line for productID whatever its quantity.
func (c *CartStore) RemoveFromCart(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		util.CartMutationsTotal.WithLabelValues("remove").Inc()
	}
}

// ClearCart empties the cart.
func (c *CartStore) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
}

// RemoveOrdered takes ordered out of the cart: each ordered quantity is
// subtracted from its line and lines reaching zero are dropped. Lines the
// order does not name are kept.
func (c *CartStore) RemoveOrdered(ordered []models.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range ordered {
		i := c.indexOf(o.Product.ID)
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity > o.Quantity {
			c.lines[i].Quantity -= o.Quantity
			continue
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	util.CartMutationsTotal.WithLabelValues("checkout").Inc()
}

// Lines returns a copy of the current lines.
func (c *CartStore) Lines() []models.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the sum of all quantities.
func (c *CartStore) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *CartStore) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.lines) == 0
}

func (c *CartStore) indexOf(productID string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
