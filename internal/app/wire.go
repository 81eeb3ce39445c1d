// Package app builds storefront components from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/clients"
	"storefront/internal/config"
	"storefront/pkg/slotstore"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewCatalogSource builds the remote-with-fallback catalog source. A nil transport uses
// http.DefaultTransport.
func NewCatalogSource(cfg config.CatalogConfig, transport http.RoundTripper, logger *zap.Logger) catalog.Source {
	if transport == nil {
		transport = http.DefaultTransport
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   cfg.TimeoutDuration(),
	}

	remote := clients.NewStoreClient(cfg.BaseURL,
		clients.WithHTTPClient(httpClient),
		clients.WithRateLimit(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1)),
		clients.WithBreaker(cfg.BreakerFailures, cfg.BreakerTimeoutDuration()),
	)
	// The fallback is read with the default transport so remote faults never reach it.
	static := clients.NewStaticClient(cfg.Fallback, &http.Client{Timeout: cfg.TimeoutDuration()})

	logger.Debug("catalog source configured",
		zap.String("base_url", cfg.BaseURL),
		zap.String("fallback", static.Location()),
	)
	return catalog.NewSource(remote, static, logger)
}

// OpenCartStore opens the durable store the cart slot lives in. The returned close
// function releases it.
func OpenCartStore(ctx context.Context, cfg config.CartConfig) (slotstore.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return slotstore.NewMemory(), noop, nil

	case config.BackendFile:
		store, err := slotstore.NewFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.BackendSQLite:
		store, err := slotstore.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.BackendPostgres:
		store, err := slotstore.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown cart backend %q", cfg.Backend)
	}
}

// OpenCart opens the cart store and hydrates the cart from it.
func OpenCart(ctx context.Context, cfg config.CartConfig, logger *zap.Logger) (*cart.Cart, func() error, error) {
	store, closeStore, err := OpenCartStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open cart store: %w", err)
	}

	c, err := cart.Open(ctx, store, cfg.Key, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return c, closeStore, nil
}

// LineFromItem captures a product's display fields for a cart line.
func LineFromItem(item catalog.Item, size string, quantity int) cart.LineItem {
	return cart.LineItem{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Image:       item.Image,
		Description: item.Description,
		Size:        size,
		Quantity:    quantity,
	}
}
