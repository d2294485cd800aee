package catalog

import (
	"sort"
	"strings"

	"lumina-store/internal/models"
)

// SortKey selects the result ordering
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// SortOption pairs a sort key with its display label
type SortOption struct {
	Label string  `json:"label"`
	Value SortKey `json:"value"`
}

// SortOptions lists the orderings in display order
var SortOptions = []SortOption{
	{Label: "Featured", Value: SortDefault},
	{Label: "Price: Low to High", Value: SortPriceAsc},
	{Label: "Price: High to Low", Value: SortPriceDesc},
	{Label: "Highest Rated", Value: SortRating},
}

// ParseSortKey maps unknown or empty values to SortDefault
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return k
	}
	return SortDefault
}

// ParseCategory maps an empty value to CategoryAll
func ParseCategory(s string) models.Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.CategoryAll
	}
	return models.Category(s)
}

// Query is the transient search state
type Query struct {
	Search   string
	Category models.Category
	Sort     SortKey
}

// Run applies the query to the catalog
func (c *Catalog) Run(q Query) []models.Product {
	return FilterAndSort(c.products, q.Search, q.Category, q.Sort)
}

// FilterAndSort returns the products matching search and category, ordered by key.
// The input slice is not modified and ties keep their input order. An empty
// category matches every product.
func FilterAndSort(products []models.Product, search string, category models.Category, key SortKey) []models.Product {
	needle := strings.ToLower(search)

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matchesSearch(p, needle) || !matchesCategory(p, category) {
			continue
		}
		result = append(result, clone(p))
	}

	switch key {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice() < result[j].EffectivePrice()
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].EffectivePrice() > result[j].EffectivePrice()
		})
	case SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	}

	return result
}

func matchesSearch(p models.Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func matchesCategory(p models.Product, category models.Category) bool {
	return category == models.CategoryAll || category == "" || p.Category == category
}
