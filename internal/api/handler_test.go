package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"lumina-store/internal/catalog"
	"lumina-store/internal/kv"
	"lumina-store/internal/models"
	"lumina-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdvisor struct {
	coords *models.Coordinates
}

func (s *stubAdvisor) DesignAdvice(_ context.Context, vibe string) string {
	return "Try " + vibe
}

func (s *stubAdvisor) LocationInfo(_ context.Context, coords *models.Coordinates) models.LocationInfo {
	s.coords = coords
	return models.LocationInfo{
		Text:  "Visit us",
		Links: []models.Link{{Title: "Lumina", URI: "https://maps.google.com/?cid=7"}},
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *stubAdvisor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Default()
	require.NoError(t, err)

	adv := &stubAdvisor{}
	svc := service.NewStorefrontService(context.Background(), cat, kv.NewMemoryStore(), adv, service.Options{})

	router := gin.New()
	NewHandler(svc).SetupRoutes(router)
	return router, adv
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthAndRequestID(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCatalogOptions(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/catalog/options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var opts service.CatalogOptions
	decode(t, w, &opts)
	assert.Equal(t, models.Categories, opts.Categories)
	require.Len(t, opts.SortOptions, 4)
	assert.Equal(t, "Featured", opts.SortOptions[0].Label)
}

func TestListProducts(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("FiltersAndSorts", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/products?category=Bedroom&sort=price-desc", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res service.QueryResult
		decode(t, w, &res)
		require.NotEmpty(t, res.Products)
		assert.Equal(t, models.CategoryBedroom, res.Category)
		assert.Equal(t, catalog.SortPriceDesc, res.Sort)
		for i, p := range res.Products {
			assert.Equal(t, models.CategoryBedroom, p.Category)
			if i > 0 {
				assert.GreaterOrEqual(t, res.Products[i-1].EffectivePrice, p.EffectivePrice)
			}
		}
	})

	t.Run("EmptyResultOffersClearFilters", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/products?q=zzzz-no-match", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res service.QueryResult
		decode(t, w, &res)
		assert.Empty(t, res.Products)
		assert.True(t, res.ClearFilters)
	})

	t.Run("UnknownSortFallsBackToDefault", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/products?sort=bogus", nil)
		var res service.QueryResult
		decode(t, w, &res)
		assert.Equal(t, catalog.SortDefault, res.Sort)
		assert.Equal(t, 13, res.Count)
	})
}

func TestGetProduct(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p service.ProductView
	decode(t, w, &p)
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, 749.0, p.EffectivePrice)
	assert.Positive(t, p.DiscountPercent)

	w = doRequest(router, http.MethodGet, "/api/v1/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": "1"})
	require.Equal(t, http.StatusOK, w.Code)

	var view service.CartView
	decode(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 1498.0, view.Total)
	assert.True(t, view.Open)

	w = doRequest(router, http.MethodPatch, "/api/v1/cart/items/1", gin.H{"delta": -10})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Equal(t, 1, view.Items[0].Quantity)

	w = doRequest(router, http.MethodPut, "/api/v1/cart/open", gin.H{"open": false})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.False(t, view.Open)

	w = doRequest(router, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/cart", nil)
	view = service.CartView{}
	decode(t, w, &view)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)
}

func TestUpdateQuantityLargeDelta(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": "1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPatch, "/api/v1/cart/items/1", gin.H{"delta": math.MaxInt})
	require.Equal(t, http.StatusOK, w.Code)

	var view service.CartView
	decode(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, math.MaxInt, view.Items[0].Quantity)
}

func TestCartEndpointErrors(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/cart/items", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPatch, "/api/v1/cart/items/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvice(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/advice", gin.H{"vibe": "mid-century warmth"})
	require.Equal(t, http.StatusOK, w.Code)

	var res service.AdviceResult
	decode(t, w, &res)
	assert.Equal(t, "Try mid-century warmth", res.Text)

	w = doRequest(router, http.MethodPost, "/api/v1/advice", gin.H{"vibe": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocation(t *testing.T) {
	router, adv := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/location?lat=37.77&lng=-122.41", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info models.LocationInfo
	decode(t, w, &info)
	assert.Equal(t, "Visit us", info.Text)
	require.Len(t, info.Links, 1)
	require.NotNil(t, adv.coords)
	assert.Equal(t, 37.77, adv.coords.Latitude)

	w = doRequest(router, http.MethodGet, "/api/v1/location?lat=37.77", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, adv.coords)
}
