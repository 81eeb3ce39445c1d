package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"STOREFRONT_CATALOG_BASE_URL", "STOREFRONT_CATALOG_FALLBACK", "STOREFRONT_CATALOG_TIMEOUT",
	"STOREFRONT_CATALOG_RATE_LIMIT", "STOREFRONT_CATALOG_RATE_BURST",
	"STOREFRONT_CATALOG_BREAKER_FAILURES", "STOREFRONT_CATALOG_BREAKER_TIMEOUT",
	"STOREFRONT_CART_BACKEND", "STOREFRONT_CART_PATH", "STOREFRONT_CART_DSN", "STOREFRONT_CART_KEY",
	"DATABASE_URL", "PORT", "STOREFRONT_SERVER_ADDR",
	"STOREFRONT_LOG_LEVEL", "STOREFRONT_LOG_DEVELOPMENT",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://fakestoreapi.com", cfg.Catalog.BaseURL)
	assert.Equal(t, "fashionista_cart", cfg.Cart.Key)
	assert.Equal(t, BackendSQLite, cfg.Cart.Backend)
	assert.Equal(t, 10*time.Second, cfg.Catalog.TimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.Catalog.BreakerTimeoutDuration())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
catalog:
  base_url: http://localhost:9000
  fallback: ./products.json
  timeout: 2s
  rate_limit: 5
cart:
  backend: file
  path: /tmp/carts
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.Catalog.BaseURL)
	assert.Equal(t, "./products.json", cfg.Catalog.Fallback)
	assert.Equal(t, 2*time.Second, cfg.Catalog.TimeoutDuration())
	assert.Equal(t, 5.0, cfg.Catalog.RateLimit)
	assert.Equal(t, uint32(5), cfg.Catalog.BreakerFailures)
	assert.Equal(t, BackendFile, cfg.Cart.Backend)
	assert.Equal(t, "/tmp/carts", cfg.Cart.Path)
	assert.Equal(t, "fashionista_cart", cfg.Cart.Key)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "cart:\n  backend: file\n")

	t.Setenv("STOREFRONT_CART_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("PORT", "9090")
	t.Setenv("STOREFRONT_LOG_DEVELOPMENT", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Cart.Backend)
	assert.Equal(t, "postgres://localhost/db", cfg.Cart.DSN)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.OTLPEndpoint)

	t.Setenv("STOREFRONT_CART_DSN", "postgres://override/db")
	t.Setenv("STOREFRONT_SERVER_ADDR", "127.0.0.1:8000")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://override/db", cfg.Cart.DSN)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
}

func TestLoad_EnvOverridesCatalogResilience(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "catalog:\n  rate_limit: 5\n  breaker_failures: 3\n")

	t.Setenv("STOREFRONT_CATALOG_RATE_LIMIT", "2.5")
	t.Setenv("STOREFRONT_CATALOG_RATE_BURST", "4")
	t.Setenv("STOREFRONT_CATALOG_BREAKER_FAILURES", "0")
	t.Setenv("STOREFRONT_CATALOG_BREAKER_TIMEOUT", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Catalog.RateLimit)
	assert.Equal(t, 4, cfg.Catalog.RateBurst)
	assert.Equal(t, uint32(0), cfg.Catalog.BreakerFailures)
	assert.Equal(t, time.Minute, cfg.Catalog.BreakerTimeoutDuration())

	t.Setenv("STOREFRONT_CATALOG_BREAKER_FAILURES", "many")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), cfg.Catalog.BreakerFailures)

	t.Setenv("STOREFRONT_CATALOG_BREAKER_TIMEOUT", "later")
	_, err = Load(path)
	assert.ErrorContains(t, err, "catalog breaker timeout")
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "cart: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "cart:\n  backend: redis\n"))
	assert.ErrorContains(t, err, "unknown cart backend")

	_, err = Load(writeConfig(t, "cart:\n  backend: postgres\n"))
	assert.ErrorContains(t, err, "requires a dsn")

	_, err = Load(writeConfig(t, "catalog:\n  timeout: soon\n"))
	assert.ErrorContains(t, err, "catalog timeout")
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "storefront.yaml")

	cfg := DefaultConfig()
	cfg.Cart.Backend = BackendMemory
	cfg.Catalog.RateBurst = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
