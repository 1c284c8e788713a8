package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v79"
)

type CatalogSource string

const (
	CatalogSourceStatic   CatalogSource = "static"
	CatalogSourcePostgres CatalogSource = "postgres"
	CatalogSourceRedis    CatalogSource = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	AppEnv        string
	Currency      stripe.Currency
	CatalogSource CatalogSource
	CatalogKey    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSURL       string
	EventWorkers  int
}

// Load reads the process environment after applying env files. Without
// arguments a missing ./.env is ignored; explicitly named files must exist.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
	}

	cfg := &Config{
		AppEnv:        getEnv("MINICART_ENV", "development"),
		Currency:      stripe.Currency(strings.ToLower(getEnv("MINICART_CURRENCY", string(stripe.CurrencyTHB)))),
		CatalogSource: CatalogSource(strings.ToLower(getEnv("MINICART_CATALOG_SOURCE", string(CatalogSourceStatic)))),
		CatalogKey:    getEnv("MINICART_CATALOG_KEY", "minicart:catalog"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		NATSURL:       os.Getenv("NATS_URL"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.EventWorkers, err = getEnvInt("MINICART_EVENT_WORKERS", 1); err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.CatalogSource {
	case CatalogSourceStatic, CatalogSourceRedis:
	case CatalogSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres catalog", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown catalog source %q", ErrInvalidConfig, c.CatalogSource)
	}

	if c.Currency == "" {
		return fmt.Errorf("%w: currency is empty", ErrInvalidConfig)
	}
	if c.EventWorkers < 1 {
		return fmt.Errorf("%w: MINICART_EVENT_WORKERS must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}
