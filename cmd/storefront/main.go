package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dheras/foodcourt/internal/cart"
	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/catalog/cached"
	catalogpg "github.com/dheras/foodcourt/internal/catalog/postgres"
	"github.com/dheras/foodcourt/internal/checkout"
	"github.com/dheras/foodcourt/internal/favorites"
	"github.com/dheras/foodcourt/internal/httpx"
	"github.com/dheras/foodcourt/internal/identity"
	"github.com/dheras/foodcourt/internal/order"
	"github.com/dheras/foodcourt/internal/pkg/config"
	"github.com/dheras/foodcourt/internal/pkg/messaging"
	"github.com/dheras/foodcourt/internal/pkg/telemetry"
	"github.com/dheras/foodcourt/internal/storage/sqlite"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger("storefront", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, "storefront")
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	catalogReader, closeCatalog, err := buildCatalog(cfg)
	if err != nil {
		slog.Error("failed to connect catalog", "error", err)
		os.Exit(1)
	}
	defer closeCatalog()

	provider := buildIdentity(cfg)

	var publisher messaging.Publisher = messaging.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	cartSvc := cart.NewService(store, catalogReader, cfg.MaxCatalogConcurrency)
	favSvc := favorites.NewService(store, catalogReader, cfg.MaxCatalogConcurrency)
	orderSvc := order.NewService(store, catalogReader, cfg.MaxCatalogConcurrency)
	coordinator := checkout.NewCoordinator(orderSvc, cartSvc, catalogReader, publisher, cfg.MaxCatalogConcurrency)

	handler := httpx.NewHandler(cartSvc, favSvc, orderSvc, coordinator)
	router := httpx.NewRouter(handler, provider)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("storefront http server starting", "addr", addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

// buildCatalog picks the catalog adapter: the external Postgres when a
// DSN is configured, otherwise the in-memory catalog for local runs.
// With Redis available the reader is wrapped in the read-through cache.
func buildCatalog(cfg config.Config) (catalog.Reader, func(), error) {
	var reader catalog.Reader
	closers := []func(){}

	if cfg.CatalogDSN != "" {
		pg, err := catalogpg.Open(cfg.CatalogDSN)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = pg.Close() })
		reader = pg
	} else {
		slog.Warn("CATALOG_DSN not set, using in-memory catalog")
		reader = catalog.NewMemory()
	}

	if cfg.RedisAddr != "" {
		c := cached.New(reader, cfg.RedisAddr, cfg.CatalogCacheTTL)
		closers = append(closers, func() { _ = c.Close() })
		reader = c
	}

	return reader, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// buildIdentity picks the identity adapter: Redis-backed sessions when
// available, otherwise a static dev provider seeded from the
// DEV_SESSION_TOKEN / DEV_USER_ID env pair.
func buildIdentity(cfg config.Config) identity.Provider {
	if cfg.RedisAddr != "" {
		return identity.NewSessionProvider(cfg.RedisAddr)
	}

	slog.Warn("REDIS_ADDR not set, using static identity provider")
	static := identity.NewStatic()
	if token, userID := os.Getenv("DEV_SESSION_TOKEN"), os.Getenv("DEV_USER_ID"); token != "" && userID != "" {
		static.Grant(token, userID)
	}
	return static
}
