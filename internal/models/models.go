package models

import "math"

// Category groups products in the catalog
type Category string

// Product categories. CategoryAll only exists as a filter value.
const (
	CategoryAll        Category = "All"
	CategoryLivingRoom Category = "Living Room"
	CategoryBedroom    Category = "Bedroom"
	CategoryDining     Category = "Dining"
	CategoryOffice     Category = "Office"
	CategoryOutdoor    Category = "Outdoor"
)

// Categories lists the filter values in display order
var Categories = []Category{
	CategoryAll,
	CategoryLivingRoom,
	CategoryBedroom,
	CategoryDining,
	CategoryOffice,
	CategoryOutdoor,
}

// Valid reports whether c is a category a product can belong to
func (c Category) Valid() bool {
	switch c {
	case CategoryLivingRoom, CategoryBedroom, CategoryDining, CategoryOffice, CategoryOutdoor:
		return true
	}
	return false
}

// Product represents a product in the catalog
type Product struct {
	ID            string   `db:"id" json:"id"`
	Name          string   `db:"name" json:"name"`
	Category      Category `db:"category" json:"category"`
	Price         float64  `db:"price" json:"price"`
	DiscountPrice *float64 `db:"discount_price" json:"discountPrice,omitempty"`
	Rating        float64  `db:"rating" json:"rating"`
	Reviews       int      `db:"reviews" json:"reviews"`
	Image         string   `db:"image" json:"image"`
	Description   string   `db:"description" json:"description"`
	IsNew         bool     `db:"is_new" json:"isNew,omitempty"`
}

// EffectivePrice is the discount price when one is set, else the list price
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

// DiscountPercent returns the rounded discount badge value, 0 when not discounted
func (p Product) DiscountPercent() int {
	if p.DiscountPrice == nil || *p.DiscountPrice <= 0 || p.Price <= 0 {
		return 0
	}
	return int(math.Round((p.Price - *p.DiscountPrice) / p.Price * 100))
}

// CartItem is a product line in the cart
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is the effective price times quantity
func (i CartItem) LineTotal() float64 {
	return i.EffectivePrice() * float64(i.Quantity)
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Link is a citation returned with generated content
type Link struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// LocationInfo is a generated showroom description with its citations
type LocationInfo struct {
	Text  string `json:"text"`
	Links []Link `json:"links"`
}

// Price is a helper for optional prices
func Price(v float64) *float64 {
	return &v
}
