// Package config loads storefront settings from defaults, an optional YAML file,
// and STOREFRONT_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Cart storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Cart      CartConfig      `yaml:"cart"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type CatalogConfig struct {
	BaseURL  string `yaml:"base_url"`
	Fallback string `yaml:"fallback"` // file path or URL; empty uses the bundled dataset
	Timeout  string `yaml:"timeout"`

	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst int     `yaml:"rate_burst"`

	BreakerFailures uint32 `yaml:"breaker_failures"` // 0 disables the breaker
	BreakerTimeout  string `yaml:"breaker_timeout"`
}

type CartConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
	Key     string `yaml:"key"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	ServiceName  string `yaml:"service_name"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:         "https://fakestoreapi.com",
			Timeout:         "10s",
			RateBurst:       1,
			BreakerFailures: 5,
			BreakerTimeout:  "30s",
		},
		Cart: CartConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(".storefront", "cart.db"),
			Key:     "fashionista_cart",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "storefront",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Catalog.BaseURL = getEnv("STOREFRONT_CATALOG_BASE_URL", c.Catalog.BaseURL)
	c.Catalog.Fallback = getEnv("STOREFRONT_CATALOG_FALLBACK", c.Catalog.Fallback)
	c.Catalog.Timeout = getEnv("STOREFRONT_CATALOG_TIMEOUT", c.Catalog.Timeout)
	if v, ok := os.LookupEnv("STOREFRONT_CATALOG_RATE_LIMIT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Catalog.RateLimit = f
		}
	}
	if v, ok := os.LookupEnv("STOREFRONT_CATALOG_RATE_BURST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Catalog.RateBurst = n
		}
	}
	if v, ok := os.LookupEnv("STOREFRONT_CATALOG_BREAKER_FAILURES"); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.Catalog.BreakerFailures = uint32(n)
		}
	}
	c.Catalog.BreakerTimeout = getEnv("STOREFRONT_CATALOG_BREAKER_TIMEOUT", c.Catalog.BreakerTimeout)

	c.Cart.Backend = getEnv("STOREFRONT_CART_BACKEND", c.Cart.Backend)
	c.Cart.Path = getEnv("STOREFRONT_CART_PATH", c.Cart.Path)
	c.Cart.DSN = getEnv("DATABASE_URL", c.Cart.DSN)
	c.Cart.DSN = getEnv("STOREFRONT_CART_DSN", c.Cart.DSN)
	c.Cart.Key = getEnv("STOREFRONT_CART_KEY", c.Cart.Key)

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	c.Server.Addr = getEnv("STOREFRONT_SERVER_ADDR", c.Server.Addr)

	c.Logging.Level = getEnv("STOREFRONT_LOG_LEVEL", c.Logging.Level)
	if v, ok := os.LookupEnv("STOREFRONT_LOG_DEVELOPMENT"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Development = b
		}
	}

	c.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Cart.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Cart.DSN == "" {
			return fmt.Errorf("cart backend %q requires a dsn", c.Cart.Backend)
		}
	default:
		return fmt.Errorf("unknown cart backend %q", c.Cart.Backend)
	}

	if _, err := parseDuration(c.Catalog.Timeout); err != nil {
		return fmt.Errorf("catalog timeout: %w", err)
	}
	if _, err := parseDuration(c.Catalog.BreakerTimeout); err != nil {
		return fmt.Errorf("catalog breaker timeout: %w", err)
	}
	return nil
}

// TimeoutDuration returns the per-request timeout for the remote catalog.
func (c CatalogConfig) TimeoutDuration() time.Duration {
	d, err := parseDuration(c.Timeout)
	if err != nil || d == 0 {
		return 10 * time.Second
	}
	return d
}

// BreakerTimeoutDuration returns how long the breaker stays open before probing.
func (c CatalogConfig) BreakerTimeoutDuration() time.Duration {
	d, err := parseDuration(c.BreakerTimeout)
	if err != nil || d == 0 {
		return 30 * time.Second
	}
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
