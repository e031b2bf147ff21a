package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Marcial-ar/tpv/internal/catalog"
	"github.com/Marcial-ar/tpv/internal/config"
	"github.com/Marcial-ar/tpv/internal/messaging"
	"github.com/Marcial-ar/tpv/internal/orders"
	"github.com/Marcial-ar/tpv/internal/pos"
	"github.com/Marcial-ar/tpv/internal/posapi"
	"github.com/Marcial-ar/tpv/internal/redisx"
	"github.com/Marcial-ar/tpv/internal/tables"
	"github.com/Marcial-ar/tpv/internal/telemetry"
	"github.com/Marcial-ar/tpv/internal/users"
)

const serviceName = "tpv-pos"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, cfg.ServiceVersion, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		logger.Error("failed to init tracer provider", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to init meter provider", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	db, err := telemetry.OpenDB(cfg.PostgresURL, cfg.DBSchema)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	productRepo := catalog.NewProductRepository(db)
	tableRepo := tables.NewTableRepository(db)
	orderRepo := orders.NewOrderRepository(db)
	userRepo := users.NewUserRepository(db)

	var products catalog.Source = productRepo
	var cache *catalog.CachedCatalog
	var idem posapi.IdempotencyStore
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()

		if err := redisx.Ping(ctx, rdb); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		cache = catalog.NewCachedCatalog(productRepo, rdb, cfg.CatalogCacheTTL, logger)
		products = cache
		idem = redisx.NewIdempotencyStore(rdb)
	}

	var events pos.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.OrderCompletedTopic)
		defer func() { _ = producer.Close() }()
		events = producer
	}

	finalizer := pos.NewFinalizer(cfg.POS, orderRepo, tableRepo, events, logger)
	sessions := pos.NewSessionManager(cfg.POS, userRepo, products, finalizer, logger)

	router := posapi.NewRouter(posapi.Routes{
		Sessions: posapi.NewHandler(sessions, tableRepo, idem, logger),
		Products: catalog.NewHandler(products, productRepo, logger),
		Tables:   tables.NewHandler(tableRepo, logger),
		Orders:   orders.NewHandler(orderRepo, logger),
		Metrics:  metricsHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		logger.Info("starting pos service",
			"port", cfg.Port,
			"tax_rate", cfg.POS.Pricer.TaxRate().String(),
			"zone_policy", cfg.POS.ZonePolicy,
			"redis", cfg.RedisAddr != "",
			"kafka", len(cfg.KafkaBrokers) > 0,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// SIGHUP drops the cached catalog after products are edited out of band.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			if cache == nil {
				continue
			}
			if err := cache.Invalidate(context.Background()); err != nil {
				logger.Warn("failed to invalidate catalog cache", "error", err)
				continue
			}
			logger.Info("catalog cache invalidated")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
