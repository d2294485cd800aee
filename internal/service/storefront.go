package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"lumina-store/internal/cart"
	"lumina-store/internal/catalog"
	"lumina-store/internal/geo"
	"lumina-store/internal/kv"
	"lumina-store/internal/models"
	"lumina-store/internal/util"

	"go.uber.org/zap"
)

var (
	ErrEmptyVibe       = errors.New("vibe must not be empty")
	ErrRequestPending  = errors.New("a request of this kind is already in progress")
	ErrProductNotFound = errors.New("product not found")
)

const (
	requestAdvice   = "advice"
	requestLocation = "location"

	persistTimeout = 5 * time.Second
)

// Advisor produces advisory text. Implementations never fail; they degrade
// to fallback text instead.
type Advisor interface {
	DesignAdvice(ctx context.Context, vibe string) string
	LocationInfo(ctx context.Context, coords *models.Coordinates) models.LocationInfo
}

// Options tunes the storefront service
type Options struct {
	CartKey    string
	GeoTimeout time.Duration

	// DefaultLocator is used when a location request carries no position
	DefaultLocator geo.Locator
}

// StorefrontService owns the catalog, the cart and advisory requests
type StorefrontService struct {
	catalog *catalog.Catalog
	store   kv.Store
	advisor Advisor
	opts    Options
	logger  *zap.Logger

	mu   sync.Mutex
	cart *cart.Cart
	open bool

	pendingMu sync.Mutex
	pending   map[string]bool
}

// NewStorefrontService restores the saved cart and wires persistence
func NewStorefrontService(
	ctx context.Context,
	cat *catalog.Catalog,
	store kv.Store,
	advisor Advisor,
	opts Options,
) *StorefrontService {
	if opts.CartKey == "" {
		opts.CartKey = cart.DefaultKey
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = 5 * time.Second
	}

	s := &StorefrontService{
		catalog: cat,
		store:   store,
		advisor: advisor,
		opts:    opts,
		logger:  util.ComponentLogger("storefront"),
		pending: make(map[string]bool),
	}

	c, err := cart.Load(ctx, store, opts.CartKey)
	if err != nil {
		util.CartRestoreResetsTotal.Inc()
		s.logger.Warn("Stored cart unreadable, starting empty",
			zap.String("key", opts.CartKey),
			zap.Error(err))
	}
	s.cart = c
	util.CartItemCount.Set(float64(c.ItemCount()))

	c.Subscribe(s.persist)
	c.Subscribe(recordCartMetrics)

	s.logger.Info("Cart restored",
		zap.Int("lines", c.Len()),
		zap.Int("items", c.ItemCount()))
	return s
}

// Subscribe registers an extra cart listener
func (s *StorefrontService) Subscribe(l cart.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Subscribe(l)
}

// Options returns the category and sort choices
func (s *StorefrontService) Options() CatalogOptions {
	categories := make([]models.Category, len(models.Categories))
	copy(categories, models.Categories)
	sorts := make([]catalog.SortOption, len(catalog.SortOptions))
	copy(sorts, catalog.SortOptions)

	return CatalogOptions{Categories: categories, SortOptions: sorts}
}

// Query filters and sorts the catalog
func (s *StorefrontService) Query(ctx context.Context, q catalog.Query) QueryResult {
	_, span := util.StartSpan(ctx, "StorefrontService.Query")
	defer span.End()

	if q.Category == "" {
		q.Category = models.CategoryAll
	}
	if q.Sort == "" {
		q.Sort = catalog.SortDefault
	}

	start := time.Now()
	products := s.catalog.Run(q)
	util.CatalogQueryLatency.Observe(time.Since(start).Seconds())
	util.CatalogQueriesTotal.WithLabelValues(string(q.Sort), strconv.FormatBool(len(products) == 0)).Inc()

	return QueryResult{
		Products:     newProductViews(products),
		Count:        len(products),
		Search:       q.Search,
		Category:     q.Category,
		Sort:         q.Sort,
		ClearFilters: len(products) == 0,
	}
}

// Product returns one catalog product
func (s *StorefrontService) Product(id string) (ProductView, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return ProductView{}, ErrProductNotFound
	}
	return newProductView(p), nil
}

// Cart returns the current cart
func (s *StorefrontService) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newCartView(s.cart, s.open)
}

// SetCartOpen shows or hides the cart panel
func (s *StorefrontService) SetCartOpen(open bool) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
	return newCartView(s.cart, s.open)
}

// AddToCart adds one unit of a catalog product and opens the cart
func (s *StorefrontService) AddToCart(ctx context.Context, productID string) (CartView, error) {
	_, span := util.StartSpan(ctx, "StorefrontService.AddToCart")
	defer span.End()

	p, ok := s.catalog.Get(productID)
	if !ok {
		return CartView{}, ErrProductNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.cart.Add(p)
	if ch.Reveal {
		s.open = true
	}

	s.logger.Debug("Added to cart",
		zap.String("product_id", p.ID),
		zap.Int("quantity", ch.Quantity))
	return newCartView(s.cart, s.open), nil
}

// RemoveFromCart drops a line. Unknown ids leave the cart unchanged.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, productID string) CartView {
	_, span := util.StartSpan(ctx, "StorefrontService.RemoveFromCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Remove(productID)
	return newCartView(s.cart, s.open)
}

// UpdateQuantity changes a line quantity by delta, never below one
func (s *StorefrontService) UpdateQuantity(ctx context.Context, productID string, delta int) CartView {
	_, span := util.StartSpan(ctx, "StorefrontService.UpdateQuantity")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.UpdateQuantity(productID, delta)
	return newCartView(s.cart, s.open)
}

// DesignAdvice asks for styling tips. Blank vibes are rejected and only one
// advice request runs at a time.
func (s *StorefrontService) DesignAdvice(ctx context.Context, vibe string) (AdviceResult, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.DesignAdvice")
	defer span.End()

	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return AdviceResult{}, ErrEmptyVibe
	}

	release, err := s.begin(requestAdvice)
	if err != nil {
		return AdviceResult{}, err
	}
	defer release()

	return AdviceResult{Text: s.advisor.DesignAdvice(ctx, vibe)}, nil
}

// LocationInfo describes the showroom. loc supplies the caller position; a
// nil loc falls back to the configured default.
func (s *StorefrontService) LocationInfo(ctx context.Context, loc geo.Locator) (models.LocationInfo, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.LocationInfo")
	defer span.End()

	release, err := s.begin(requestLocation)
	if err != nil {
		return models.LocationInfo{}, err
	}
	defer release()

	if loc == nil {
		loc = s.opts.DefaultLocator
	}
	coords := geo.Acquire(ctx, loc, s.opts.GeoTimeout, s.logger)

	return s.advisor.LocationInfo(ctx, coords), nil
}

// begin marks a request kind as in flight
func (s *StorefrontService) begin(kind string) (func(), error) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if s.pending[kind] {
		return nil, ErrRequestPending
	}
	s.pending[kind] = true

	return func() {
		s.pendingMu.Lock()
		delete(s.pending, kind)
		s.pendingMu.Unlock()
	}, nil
}

// persist writes the cart after every mutation. Failures keep the in-memory
// state.
func (s *StorefrontService) persist(c *cart.Cart, ch cart.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := cart.Save(ctx, s.store, s.opts.CartKey, c); err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Error("Failed to persist cart",
			zap.String("change", string(ch.Kind)),
			zap.String("product_id", ch.ProductID),
			zap.Error(err))
	}
}

func recordCartMetrics(c *cart.Cart, ch cart.Change) {
	util.CartOperationsTotal.WithLabelValues(string(ch.Kind)).Inc()
	util.CartItemCount.Set(float64(c.ItemCount()))
}
