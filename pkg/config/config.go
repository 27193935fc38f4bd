package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Checkout     CheckoutConfig
	Geolocation  GeolocationConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LENDOM_APP_ENV" required:"true"`
	Port         string `envconfig:"LENDOM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LENDOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LENDOM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"LENDOM_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"LENDOM_DB_DSN" default:"lendom.db"`

	MaxOpenConns    int           `envconfig:"LENDOM_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LENDOM_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LENDOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LENDOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether cart slots live in a local sqlite file.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, DBDriverSQLite)
}

func (d DBConfig) validate() error {
	switch strings.ToLower(d.Driver) {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q (expected %s or %s)", d.Driver, DBDriverSQLite, DBDriverPostgres)
	}
	if d.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"LENDOM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LENDOM_REDIS_ADDR"`
	Password     string        `envconfig:"LENDOM_REDIS_PASSWORD"`
	DB           int           `envconfig:"LENDOM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LENDOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LENDOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LENDOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LENDOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LENDOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CatalogConfig struct {
	Path string `envconfig:"LENDOM_CATALOG_PATH" default:"assets/data/products.json"`
}

type CheckoutConfig struct {
	// WhatsAppNumber is the recipient in international format without + or spaces.
	WhatsAppNumber  string `envconfig:"LENDOM_WHATSAPP_NUMBER" required:"true"`
	WhatsAppBaseURL string `envconfig:"LENDOM_WHATSAPP_BASE_URL" default:"https://wa.me"`
	StoreName       string `envconfig:"LENDOM_STORE_NAME" default:"LENDOM PARFUM"`
}

func (c CheckoutConfig) validate() error {
	number := strings.TrimSpace(c.WhatsAppNumber)
	if number == "" {
		return fmt.Errorf("%s is required", EnvWhatsAppNumber)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s must contain digits only, got %q", EnvWhatsAppNumber, c.WhatsAppNumber)
		}
	}
	return nil
}

type GeolocationConfig struct {
	ProviderURL string `envconfig:"LENDOM_GEO_PROVIDER_URL"`
	// Timeout bounds the single-shot position lookup.
	Timeout time.Duration `envconfig:"LENDOM_GEO_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LENDOM_AUTO_MIGRATE" default:"false"`
}
