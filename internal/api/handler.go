package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lumina-store/internal/catalog"
	"lumina-store/internal/geo"
	"lumina-store/internal/service"
	"lumina-store/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Handler contains HTTP handlers
type Handler struct {
	storefront *service.StorefrontService
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.StorefrontService) *Handler {
	return &Handler{
		storefront: storefront,
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type cartOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

type adviceRequest struct {
	Vibe string `json:"vibe"`
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(loggingMiddleware(util.ComponentLogger("http")))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog/options", h.getOptions)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)

		v1.GET("/cart", h.getCart)
		v1.PUT("/cart/open", h.setCartOpen)
		v1.POST("/cart/items", h.addItem)
		v1.PATCH("/cart/items/:id", h.updateQuantity)
		v1.DELETE("/cart/items/:id", h.removeItem)

		v1.POST("/advice", h.designAdvice)
		v1.GET("/location", h.locationInfo)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.storefront.Options())
}

// listProducts runs the catalog query from the q, category and sort parameters
func (h *Handler) listProducts(c *gin.Context) {
	q := catalog.Query{
		Search:   c.Query("q"),
		Category: catalog.ParseCategory(c.Query("category")),
		Sort:     catalog.ParseSortKey(c.Query("sort")),
	}

	c.JSON(http.StatusOK, h.storefront.Query(c.Request.Context(), q))
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.storefront.Product(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.storefront.Cart())
}

func (h *Handler) setCartOpen(c *gin.Context) {
	var req cartOpenRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.storefront.SetCartOpen(*req.Open))
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.storefront.AddToCart(c.Request.Context(), req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.storefront.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Delta))
}

func (h *Handler) removeItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.storefront.RemoveFromCart(c.Request.Context(), c.Param("id")))
}

func (h *Handler) designAdvice(c *gin.Context) {
	var req adviceRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.storefront.DesignAdvice(c.Request.Context(), req.Vibe)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// locationInfo uses lat/lng query parameters as the caller position when
// both are present and valid
func (h *Handler) locationInfo(c *gin.Context) {
	var loc geo.Locator
	if coords := geo.ParsePair(c.Query("lat"), c.Query("lng")); coords != nil {
		loc = geo.Static{Coordinates: coords}
	}

	info, err := h.storefront.LocationInfo(c.Request.Context(), loc)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// writeError maps service errors to status codes
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrEmptyVibe):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrRequestPending):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Request already in progress",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware writes one structured line per request
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
