package service

import (
	"lumina-store/internal/cart"
	"lumina-store/internal/catalog"
	"lumina-store/internal/models"
)

// ProductView is a product with its discount badge
type ProductView struct {
	models.Product
	EffectivePrice  float64 `json:"effectivePrice"`
	DiscountPercent int     `json:"discountPercent,omitempty"`
}

// CatalogOptions lists the values the filter controls offer
type CatalogOptions struct {
	Categories  []models.Category    `json:"categories"`
	SortOptions []catalog.SortOption `json:"sortOptions"`
}

// QueryResult is the outcome of a catalog query
type QueryResult struct {
	Products []ProductView   `json:"products"`
	Count    int             `json:"count"`
	Search   string          `json:"search"`
	Category models.Category `json:"category"`
	Sort     catalog.SortKey `json:"sort"`

	// ClearFilters is set when nothing matched so the client can offer a reset
	ClearFilters bool `json:"clearFilters"`
}

// CartLine is a cart item with its subtotal
type CartLine struct {
	models.CartItem
	LineTotal float64 `json:"lineTotal"`
}

// CartView is the cart as presented to clients
type CartView struct {
	Items     []CartLine `json:"items"`
	Count     int        `json:"count"`
	ItemCount int        `json:"itemCount"`
	Total     float64    `json:"total"`
	Open      bool       `json:"open"`
}

// AdviceResult wraps design advice text
type AdviceResult struct {
	Text string `json:"text"`
}

func newProductView(p models.Product) ProductView {
	return ProductView{
		Product:         p,
		EffectivePrice:  p.EffectivePrice(),
		DiscountPercent: p.DiscountPercent(),
	}
}

func newProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

func newCartView(c *cart.Cart, open bool) CartView {
	items := c.Items()
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{CartItem: item, LineTotal: item.LineTotal()})
	}

	return CartView{
		Items:     lines,
		Count:     len(lines),
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
		Open:      open,
	}
}
