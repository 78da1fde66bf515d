package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a purchasable item. Products are defined at startup and never
// mutated.
type Product struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Catalog is a read-only list of products.
type Catalog struct {
	products []Product
}

func New(products ...Product) *Catalog {
	return &Catalog{products: products}
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	return New(
		Product{Code: "P001", Name: "Teclado Mecânico", Price: decimal.RequireFromString("249.90")},
		Product{Code: "P002", Name: "Mouse Gamer", Price: decimal.RequireFromString("99.90")},
		Product{Code: "P003", Name: "Monitor 24\"", Price: decimal.RequireFromString("899.00")},
		Product{Code: "P004", Name: "Webcam 1080p", Price: decimal.RequireFromString("159.50")},
		Product{Code: "P005", Name: "Headset", Price: decimal.RequireFromString("199.99")},
	)
}

// All returns every product in catalog order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByCode returns the product with the exact code.
func (c *Catalog) FindByCode(code string) (Product, error) {
	for _, p := range c.products {
		if p.Code == code {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// Search returns products whose name contains term (case-insensitive) or
// whose code equals term (case-insensitive). Callers are expected to
// short-circuit an empty term to All.
func (c *Catalog) Search(term string) []Product {
	term = strings.ToLower(term)
	results := make([]Product, 0)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.ToLower(p.Code) == term {
			results = append(results, p)
		}
	}
	return results
}
