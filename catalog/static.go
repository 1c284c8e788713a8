package catalog

import (
	"context"

	"github.com/stripe/stripe-go/v79"

	"goflare.io/minicart/models"
)

// DefaultCurrency 預設幣別（泰銖）
const DefaultCurrency = stripe.CurrencyTHB

var defaultProducts = []models.Product{
	{ID: 1, Name: "iPhone 16 pro", Price: 39900},
	{ID: 2, Name: "iphone 16", Price: 29900},
	{ID: 3, Name: "iPhone 16e", Price: 26900},
	{ID: 4, Name: "iPad", Price: 12900},
	{ID: 5, Name: "iPad Air", Price: 21900},
	{ID: 6, Name: "iPad Pro", Price: 37900},
}

var _ Source = (*StaticSource)(nil)

// StaticSource serves a list compiled into the binary.
type StaticSource struct {
	products []models.Product
}

func NewStaticSource(products []models.Product) *StaticSource {
	return &StaticSource{products: products}
}

func DefaultSource() *StaticSource {
	return NewStaticSource(defaultProducts)
}

func (s *StaticSource) Load(_ context.Context) ([]models.Product, error) {
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, nil
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	c, err := New(DefaultCurrency, defaultProducts)
	if err != nil {
		panic(err)
	}
	return c
}
