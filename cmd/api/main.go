package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/qrdine/qrdine-backend/api/routes"
	"github.com/qrdine/qrdine-backend/internal/gateways"
	"github.com/qrdine/qrdine-backend/internal/gateways/discovery"
	"github.com/qrdine/qrdine-backend/internal/notifications"
	"github.com/qrdine/qrdine-backend/internal/providers"
	"github.com/qrdine/qrdine-backend/internal/providers/flutterwave"
	"github.com/qrdine/qrdine-backend/internal/providers/paystack"
	"github.com/qrdine/qrdine-backend/internal/restaurant"
	"github.com/qrdine/qrdine-backend/internal/settings"
	"github.com/qrdine/qrdine-backend/pkg/config"
	"github.com/qrdine/qrdine-backend/pkg/db"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	"github.com/qrdine/qrdine-backend/pkg/logger"
	"github.com/qrdine/qrdine-backend/pkg/metrics"
	"github.com/qrdine/qrdine-backend/pkg/migrate"
	"github.com/qrdine/qrdine-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	settingsService, err := settings.NewService(settings.RepositoryStore{Repo: settings.NewRepository(dbClient.DB())})
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	resolver, err := gateways.NewResolver(settingsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway resolver", err)
		os.Exit(1)
	}

	listers := providers.Registry{}
	if cfg.Paystack.SecretKey != "" {
		client, err := paystack.NewClient(cfg.Paystack.SecretKey,
			paystack.WithBaseURL(cfg.Paystack.BaseURL),
			paystack.WithHTTPClient(&http.Client{Timeout: cfg.Paystack.Timeout}),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create paystack client", err)
			os.Exit(1)
		}
		listers[enums.PaymentProviderPaystack] = client
	}
	if cfg.Flutterwave.SecretKey != "" {
		client, err := flutterwave.NewClient(cfg.Flutterwave.SecretKey,
			flutterwave.WithBaseURL(cfg.Flutterwave.BaseURL),
			flutterwave.WithHTTPClient(&http.Client{Timeout: cfg.Flutterwave.Timeout}),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create flutterwave client", err)
			os.Exit(1)
		}
		listers[enums.PaymentProviderFlutterwave] = client
	}

	registry := prometheus.NewRegistry()
	probeMetrics := metrics.NewProbeMetrics(registry)

	prober, err := discovery.NewProber(cfg.Discovery, listers, settingsService, probeMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create discovery prober", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurant.NewService(
		restaurant.NewRepository(dbClient.DB()),
		dbClient,
		notificationsService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
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
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Registry:      registry,
			Resolver:      resolver,
			Listers:       listers,
			Prober:        prober,
			Settings:      settingsService,
			Restaurant:    restaurantService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
