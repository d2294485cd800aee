package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"lumina-store/internal/models"
)

//go:embed data/products.json
var defaultProducts []byte

var (
	ErrInvalidProduct = errors.New("invalid product")
	ErrDuplicateID    = errors.New("duplicate product id")
)

// Catalog is an immutable, preloaded list of products
type Catalog struct {
	products []models.Product
	byID     map[string]int
}

// New validates products and builds a catalog that keeps their order
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, clone(p))
	}

	return c, nil
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	var products []models.Product
	if err := json.Unmarshal(defaultProducts, &products); err != nil {
		return nil, fmt.Errorf("failed to decode built-in catalog: %w", err)
	}
	return New(products)
}

// Validate checks the product invariants
func Validate(p models.Product) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	case !p.Category.Valid():
		return fmt.Errorf("%w: %s has category %q", ErrInvalidProduct, p.ID, p.Category)
	case p.Price <= 0:
		return fmt.Errorf("%w: %s price must be positive", ErrInvalidProduct, p.ID)
	case p.DiscountPrice != nil && (*p.DiscountPrice <= 0 || *p.DiscountPrice >= p.Price):
		return fmt.Errorf("%w: %s discount price must be below price", ErrInvalidProduct, p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: %s rating out of range", ErrInvalidProduct, p.ID)
	case p.Reviews < 0:
		return fmt.Errorf("%w: %s negative review count", ErrInvalidProduct, p.ID)
	}
	return nil
}

// Products returns a copy of the catalog in catalog order
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = clone(p)
	}
	return out
}

// Get retrieves a product by ID
func (c *Catalog) Get(id string) (models.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return clone(c.products[idx]), true
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

func clone(p models.Product) models.Product {
	if p.DiscountPrice != nil {
		p.DiscountPrice = models.Price(*p.DiscountPrice)
	}
	return p
}
