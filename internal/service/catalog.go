package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidProduct   = errors.New("invalid product")
)

// ProductSource supplies the product list the catalog is built from.
type ProductSource interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
}

// Catalog is the immutable, ordered product list with lookup by id.
type Catalog struct {
	products []models.Product
	byID     map[string]int
}

// NewCatalog indexes products, keeping their order.
func NewCatalog(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidProduct)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %s has negative price", ErrInvalidProduct, p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 || p.Reviews < 0 {
			return nil, fmt.Errorf("%w: product %s has rating %d / reviews %d", ErrInvalidProduct, p.ID, p.Rating, p.Reviews)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, cloneProduct(p))
	}

	return c, nil
}

// LoadCatalog builds a catalog from src once at start-up.
func LoadCatalog(ctx context.Context, src ProductSource) (*Catalog, error) {
	ctx, span := util.StartSpan(ctx, "Catalog.Load")
	defer span.End()

	products, err := src.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	c, err := NewCatalog(products)
	if err != nil {
		return nil, err
	}

	util.GetLogger().Info("Catalog loaded", zap.Int("products", len(products)))
	return c, nil
}

// FindByID looks a product up by id.
func (c *Catalog) FindByID(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return cloneProduct(c.products[i]), true
}

// ListAll returns every product in catalog order.
func (c *Catalog) ListAll() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// ListByCategory returns the products of one category in catalog order.
func (c *Catalog) ListByCategory(category string) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func cloneProduct(p models.Product) models.Product {
	if p.Details != nil {
		details := make([]string, len(p.Details))
		copy(details, p.Details)
		p.Details = details
	}
	return p
}
