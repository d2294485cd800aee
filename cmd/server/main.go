package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumina-store/config"
	"lumina-store/internal/advisor"
	"lumina-store/internal/api"
	"lumina-store/internal/broker"
	"lumina-store/internal/catalog"
	"lumina-store/internal/geo"
	"lumina-store/internal/kv"
	"lumina-store/internal/redisclient"
	"lumina-store/internal/service"
	"lumina-store/internal/store"
	"lumina-store/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	ctx := context.Background()

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.String("source", cfg.Database.CatalogSource),
		zap.Int("products", cat.Len()))

	cartStore, closeStore, err := openCartStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open cart storage", zap.Error(err))
	}
	defer closeStore()
	logger.Info("Cart storage ready", zap.String("backend", cfg.Storage.Backend))

	adv := newAdvisor(ctx, cfg, logger)

	storefront := service.NewStorefrontService(ctx, cat, cartStore, adv, service.Options{
		CartKey:        cfg.Storage.CartKey,
		GeoTimeout:     cfg.Geo.Timeout,
		DefaultLocator: defaultLocator(cfg),
	})

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCart)
		publisher := broker.NewCartEventPublisher(producer, cfg.Kafka.PublishTimeout)
		storefront.Subscribe(publisher.Listener())
		defer func() {
			publisher.Wait()
			if err := producer.Close(); err != nil {
				logger.Error("Error closing kafka producer", zap.Error(err))
			}
		}()
		logger.Info("Kafka cart events enabled", zap.String("topic", cfg.Kafka.TopicCart))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(storefront)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// loadCatalog reads products from Postgres when configured, seeding an empty
// table with the built-in products, or uses the built-in catalog. Products are
// held in memory, so the connection is closed after loading.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.Database.CatalogSource != "postgres" {
		return catalog.Default()
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	products, err := db.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		builtin, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		products = builtin.Products()
		if err := db.SeedProducts(ctx, products); err != nil {
			return nil, err
		}
		logger.Info("Seeded products table", zap.Int("products", len(products)))
	}

	return catalog.New(products)
}

func openCartStore(cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return kv.NewMemoryStore(), func() {}, nil
	case "redis":
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case "file":
		fs, err := kv.NewFileStore(cfg.Storage.CartFile)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart storage backend %q", cfg.Storage.Backend)
	}
}

// newAdvisor builds the Gemini-backed advisor. Without an API key every
// request answers with fallback text.
func newAdvisor(ctx context.Context, cfg *config.Config, logger *zap.Logger) *advisor.Client {
	advCfg := advisor.Config{
		AdviceModel:   cfg.Advisor.AdviceModel,
		LocationModel: cfg.Advisor.LocationModel,
		Advice: advisor.GenerationParams{
			Temperature: cfg.Advisor.Temperature,
			TopP:        cfg.Advisor.TopP,
		},
		Timeout: cfg.Advisor.Timeout,
	}
	advLogger := logger.With(zap.String("component", "advisor"))

	client, err := advisor.NewGeminiClient(ctx, cfg.Advisor.APIKey)
	if err != nil {
		logger.Warn("Gemini client unavailable, advisory requests will use fallback text", zap.Error(err))
		return advisor.NewClient(nil, advCfg, advLogger)
	}

	return advisor.NewClient(client.Models, advCfg, advLogger)
}

func defaultLocator(cfg *config.Config) geo.Locator {
	coords := geo.ParsePair(cfg.Geo.DefaultLatitude, cfg.Geo.DefaultLongitude)
	if coords == nil {
		return nil
	}
	return geo.Static{Coordinates: coords}
}
