// Package catalog provides the fixed set of purchasable products. A Catalog
// is built once at startup from a Source and never changes afterwards.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"goflare.io/minicart/models"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrNegativePrice    = errors.New("negative product price")
)

// Source 提供啟動時載入的商品列表
type Source interface {
	Load(ctx context.Context) ([]models.Product, error)
}

type Catalog struct {
	currency stripe.Currency
	products []models.Product
	byID     map[int64]int
}

// New validates products and freezes them in the given order.
func New(currency stripe.Currency, products []models.Product) (*Catalog, error) {
	c := &Catalog{
		currency: currency,
		products: make([]models.Product, len(products)),
		byID:     make(map[int64]int, len(products)),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d (%s): %w", p.ID, p.Name, ErrNegativePrice)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrDuplicateProduct)
		}
		c.byID[p.ID] = i
	}

	return c, nil
}

// Load 從 source 讀取商品並建立目錄
func Load(ctx context.Context, source Source, currency stripe.Currency, logger *zap.Logger) (*Catalog, error) {
	products, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	c, err := New(currency, products)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	logger.Info("Catalog loaded",
		zap.Int("products", len(c.products)),
		zap.String("currency", string(currency)))

	return c, nil
}

// ListProducts returns every product in catalog order. The slice is a copy.
func (c *Catalog) ListProducts() []models.Product {
	products := make([]models.Product, len(c.products))
	copy(products, c.products)
	return products
}

func (c *Catalog) Product(id int64) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Currency() stripe.Currency {
	return c.currency
}

func (c *Catalog) Len() int {
	return len(c.products)
}
