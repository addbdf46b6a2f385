package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/internal/storefront"
	"github.com/marlowpress/storefront-backend/pkg/config"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	"github.com/marlowpress/storefront-backend/pkg/logger"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

// Drives one full checkout against the configured order API, using the same
// wiring a storefront client runs with: redis-backed cart storage when
// configured, memory otherwise.
func main() {
	sessionID := flag.String("session", "smoke", "cart session id")
	email := flag.String("email", "smoke@marlowpress.com", "contact email")
	name := flag.String("name", "Smoke Test", "recipient name")
	street := flag.String("street", "123 Mulberry Ln", "street address")
	city := flag.String("city", "Wadsworth", "city")
	state := flag.String("state", "OH", "state")
	zip := flag.String("zip", "44281", "zip code")
	country := flag.String("country", "US", "two-letter country code")
	editionID := flag.String("edition", "ed-smoke", "edition id to order")
	pages := flag.Int("pages", 166, "page count of the edition")
	quantity := flag.Int("quantity", 1, "copies to order")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "storefront-smoke"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-smoke",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	app, err := storefront.NewApp(ctx, cfg, *sessionID, logg)
	if err != nil {
		logg.Error(ctx, "failed to wire storefront", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logg.Error(ctx, "error closing storefront", err)
		}
	}()

	app.Store().AddItem(cart.CartItem{
		EditionID:   *editionID,
		EditionType: enums.EditionTypeOriginal,
		Quantity:    *quantity,
		PrintSize:   enums.PrintSizeM,
		NumPages:    []int{*pages},
	})
	app.Store().SetEmail(*email)
	app.Store().SetAddress(&types.Address{
		Name:    *name,
		Street:  *street,
		City:    *city,
		State:   *state,
		Zip:     *zip,
		Country: *country,
	})

	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"origin": cfg.CheckoutBaseURL(),
	})
	logg.Info(ctx, "starting checkout smoke run")

	svc := app.BeginCheckout()
	if err := svc.GetExploratoryMetadata(ctx); err != nil {
		logg.Error(ctx, "fee quote failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"shippingLevel": svc.ShippingLevel().String(),
		"feeCents":      svc.Metadata().Total(),
	}), "fee quote received")

	if err := svc.CreateOrderInitialization(ctx); err != nil {
		logg.Error(ctx, "order initialization failed", err)
		os.Exit(1)
	}
	if err := svc.CreateOrder(ctx); err != nil {
		logg.Error(ctx, "order submission failed", err)
		os.Exit(1)
	}
	if err := svc.SendOrderConfirmationEmail(ctx); err != nil {
		logg.Error(ctx, "confirmation email failed", err)
		os.Exit(1)
	}

	app.Store().Clear()
	logg.Info(logg.WithOrderID(ctx, svc.OrderID().String()), "checkout smoke run complete")
}
