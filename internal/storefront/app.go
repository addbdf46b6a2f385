package storefront

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/marlowpress/storefront-backend/internal/cart"
	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/pkg/config"
	"github.com/marlowpress/storefront-backend/pkg/logger"
	pkgredis "github.com/marlowpress/storefront-backend/pkg/redis"
)

// App is the composition root for a storefront client process: one cart
// store bound to durable storage, plus the order-API client that checkout
// workflows run against. Everything downstream receives these as injected
// dependencies rather than reaching for globals.
type App struct {
	logg  *logger.Logger
	store *cart.Store
	api   checkout.Api
	redis *pkgredis.Client
}

// NewApp wires the client half from configuration. With redis configured the
// cart snapshot survives restarts under the session key; without it the
// snapshot stays in process memory. The order-API origin comes from
// config.CheckoutBaseURL and stays fixed for the process lifetime.
func NewApp(ctx context.Context, cfg *config.Config, sessionID string, logg *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}

	var (
		storage     cart.Storage = cart.NewMemoryStorage()
		redisClient *pkgredis.Client
	)
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		client, err := pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("connecting cart storage: %w", err)
		}
		redisClient = client
		storage = cart.NewRedisStorage(client, sessionID)
	}

	store, err := cart.NewStore(ctx, storage, logg)
	if err != nil {
		if redisClient != nil {
			err = multierr.Append(err, redisClient.Close())
		}
		return nil, err
	}

	api, err := checkout.NewClient(cfg.CheckoutBaseURL())
	if err != nil {
		if redisClient != nil {
			err = multierr.Append(err, redisClient.Close())
		}
		return nil, err
	}

	return &App{
		logg:  logg,
		store: store,
		api:   api,
		redis: redisClient,
	}, nil
}

// Store returns the live cart store.
func (a *App) Store() *cart.Store {
	return a.store
}

// BeginCheckout starts one checkout attempt over a snapshot of the current
// cart. Each attempt gets a fresh Service; an abandoned one is discarded.
func (a *App) BeginCheckout(opts ...checkout.Option) *checkout.Service {
	return checkout.NewService(a.store.Cart(), a.api, a.logg, opts...)
}

// Close flushes pending snapshot writes and releases connections.
func (a *App) Close() error {
	errs := a.store.Shutdown()
	if a.redis != nil {
		errs = multierr.Append(errs, a.redis.Close())
	}
	return errs
}
