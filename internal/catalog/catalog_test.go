package catalog

import (
	"testing"

	"lumina-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 13, c.Len())

	sofa, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Nordic Velvet Sofa", sofa.Name)
	assert.Equal(t, models.CategoryLivingRoom, sofa.Category)
	assert.Equal(t, 749.0, sofa.EffectivePrice())
	assert.True(t, sofa.IsNew)

	for _, p := range c.Products() {
		assert.NotEqual(t, models.CategoryAll, p.Category, "product %s", p.ID)
	}
}

func TestNewRejectsInvalidProducts(t *testing.T) {
	valid := models.Product{ID: "a", Name: "A", Category: models.CategoryDining, Price: 100, Rating: 4}

	tests := []struct {
		name   string
		mutate func(p *models.Product)
	}{
		{"empty id", func(p *models.Product) { p.ID = "" }},
		{"pseudo category", func(p *models.Product) { p.Category = models.CategoryAll }},
		{"unknown category", func(p *models.Product) { p.Category = "Garage" }},
		{"zero price", func(p *models.Product) { p.Price = 0 }},
		{"discount not below price", func(p *models.Product) { p.DiscountPrice = models.Price(100) }},
		{"rating above five", func(p *models.Product) { p.Rating = 5.5 }},
		{"negative reviews", func(p *models.Product) { p.Reviews = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			_, err := New([]models.Product{p})
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	p := models.Product{ID: "a", Name: "A", Category: models.CategoryDining, Price: 100}
	_, err := New([]models.Product{p, p})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestCatalogIsImmutable(t *testing.T) {
	c, err := New([]models.Product{
		{ID: "a", Name: "A", Category: models.CategoryDining, Price: 100, DiscountPrice: models.Price(80)},
	})
	require.NoError(t, err)

	products := c.Products()
	products[0].Name = "changed"
	*products[0].DiscountPrice = 1

	p, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, 80.0, *p.DiscountPrice)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}
