package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lendom/storefront-backend/api/routes"
	"github.com/lendom/storefront-backend/internal/cart"
	"github.com/lendom/storefront-backend/internal/catalog"
	"github.com/lendom/storefront-backend/internal/checkout"
	"github.com/lendom/storefront-backend/internal/location"
	"github.com/lendom/storefront-backend/pkg/config"
	"github.com/lendom/storefront-backend/pkg/db"
	"github.com/lendom/storefront-backend/pkg/geo"
	"github.com/lendom/storefront-backend/pkg/logger"
	"github.com/lendom/storefront-backend/pkg/metrics"
	"github.com/lendom/storefront-backend/pkg/migrate"
	"github.com/lendom/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	var geoClient *geo.Client
	if cfg.Geolocation.ProviderURL != "" {
		geoClient, err = geo.NewClient(cfg.Geolocation.ProviderURL, geo.WithTimeout(cfg.Geolocation.Timeout))
		if err != nil {
			logg.Error(context.Background(), "failed to create geolocation client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "no geolocation provider configured, picker is manual only")
	}

	catalogService := catalog.NewService(context.Background(), cfg.Catalog.Path, logg, storefrontMetrics)

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), catalogService, logg, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	locationService, err := location.NewService(redisClient, geoClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cfg.Checkout, cartService, locationService, logg, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			catalogService,
			cartService,
			locationService,
			checkoutService,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
