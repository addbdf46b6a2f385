package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/marlowpress/storefront-backend/api/routes"
	"github.com/marlowpress/storefront-backend/internal/mailer"
	"github.com/marlowpress/storefront-backend/internal/orders"
	"github.com/marlowpress/storefront-backend/internal/payments"
	"github.com/marlowpress/storefront-backend/internal/shipping"
	"github.com/marlowpress/storefront-backend/pkg/config"
	"github.com/marlowpress/storefront-backend/pkg/db"
	"github.com/marlowpress/storefront-backend/pkg/logger"
	"github.com/marlowpress/storefront-backend/pkg/metrics"
	"github.com/marlowpress/storefront-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "order-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "order-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.MaybeAutoMigrate(context.Background(), cfg, logg); err != nil {
		logg.Error(context.Background(), "failed to run dev auto-migration", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}
	paymentsProvider, err := payments.NewStripeProvider(stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments provider", err)
		os.Exit(1)
	}

	var mail mailer.Mailer
	if cfg.Sendgrid.APIKey != "" {
		mail, err = mailer.NewSendgridMailer(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create sendgrid mailer", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, logging emails instead of sending")
		mail = mailer.NewLogMailer(logg)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), mail, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	shippingService := shipping.NewService(cfg.Shipping)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting order api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			logg,
			dbClient,
			shippingService,
			paymentsProvider,
			ordersService,
			checkoutMetrics,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "order api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
