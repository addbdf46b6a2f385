package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "marlow"

	AppEnvDev     = "dev"
	AppEnvStaging = "staging"
	AppEnvProd    = "production"

	EnvDBDSN  = "MARLOW_DB_DSN"
	EnvDBHost = "MARLOW_DB_HOST"
	EnvDBUser = "MARLOW_DB_USER"
	EnvDBName = "MARLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Stripe       StripeConfig
	Sendgrid     SendgridConfig
	Shipping     ShippingConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig

	baseURLOnce sync.Once
	baseURL     string
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MARLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"MARLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MARLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MARLOW_DB_DSN"`
	Driver string `envconfig:"MARLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MARLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"MARLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MARLOW_DB_USER"`
	LegacyPassword string `envconfig:"MARLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"MARLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"MARLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARLOW_REDIS_URL"`
	Address      string        `envconfig:"MARLOW_REDIS_ADDR"`
	Password     string        `envconfig:"MARLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey string `envconfig:"MARLOW_STRIPE_API_KEY"`
	Env    string `envconfig:"MARLOW_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type SendgridConfig struct {
	APIKey      string `envconfig:"MARLOW_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"MARLOW_SENDGRID_FROM_EMAIL" default:"orders@marlowpress.com"`
}

type ShippingConfig struct {
	// TaxNexusStates lists US states where sales tax must be collected,
	// as a comma-separated list of two-letter codes.
	TaxNexusStates []string `envconfig:"MARLOW_TAX_NEXUS_STATES"`
	TaxRateBPS     int      `envconfig:"MARLOW_TAX_RATE_BPS" default:"0"`
}

type CheckoutConfig struct {
	DevBaseURL     string `envconfig:"MARLOW_CHECKOUT_DEV_BASE_URL" default:"http://localhost:2345"`
	StagingBaseURL string `envconfig:"MARLOW_CHECKOUT_STAGING_BASE_URL"`
	ProdBaseURL    string `envconfig:"MARLOW_CHECKOUT_PROD_BASE_URL"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MARLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MARLOW_AUTO_MIGRATE" default:"false"`
}

// CheckoutBaseURL resolves the order-API origin for the configured app
// environment. The result is memoized: a checkout workflow started against one
// environment keeps talking to it for the lifetime of the process.
func (c *Config) CheckoutBaseURL() string {
	c.baseURLOnce.Do(func() {
		switch {
		case c.App.IsProd() && c.Checkout.ProdBaseURL != "":
			c.baseURL = c.Checkout.ProdBaseURL
		case strings.EqualFold(c.App.Env, AppEnvStaging) && c.Checkout.StagingBaseURL != "":
			c.baseURL = c.Checkout.StagingBaseURL
		default:
			c.baseURL = c.Checkout.DevBaseURL
		}
		c.baseURL = strings.TrimRight(c.baseURL, "/")
	})
	return c.baseURL
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
