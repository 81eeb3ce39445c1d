// internal/clients/store_client.go
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/catalog"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is returned when the remote endpoint answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Endpoint routes, each guarded by its own circuit breaker.
const (
	RouteProducts   = "products"
	RouteCategories = "categories"
	RouteByCategory = "category"
)

// StoreClient talks to the remote product catalog endpoint.
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	breakerFailures uint32
	breakerTimeout  time.Duration
	breakers        map[string]*gobreaker.CircuitBreaker
}

// StoreOption customizes a StoreClient.
type StoreOption func(*StoreClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) StoreOption {
	return func(sc *StoreClient) {
		sc.httpClient = c
	}
}

// WithRateLimit paces outbound requests. A zero limit leaves requests unpaced.
func WithRateLimit(limit rate.Limit, burst int) StoreOption {
	return func(sc *StoreClient) {
		if limit <= 0 {
			return
		}
		sc.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithBreaker opens a route's circuit after the given number of consecutive failures
// on that route and probes it again after timeout. Zero failures never trips.
func WithBreaker(consecutiveFailures uint32, timeout time.Duration) StoreOption {
	return func(sc *StoreClient) {
		sc.breakerFailures = consecutiveFailures
		sc.breakerTimeout = timeout
	}
}

// NewStoreClient creates a client for the endpoint rooted at baseURL.
func NewStoreClient(baseURL string, opts ...StoreOption) *StoreClient {
	c := &StoreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),

		breakerFailures: 5,
		breakerTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breakers = make(map[string]*gobreaker.CircuitBreaker, 3)
	for _, route := range []string{RouteProducts, RouteCategories, RouteByCategory} {
		c.breakers[route] = newBreaker(route, c.breakerFailures, c.breakerTimeout)
	}
	return c
}

func newBreaker(route string, consecutiveFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "catalog-remote-" + route,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return consecutiveFailures > 0 && counts.ConsecutiveFailures >= consecutiveFailures
		},
		// A request abandoned by its caller says nothing about the endpoint.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// BreakerState reports the state of the circuit breaker guarding route.
func (c *StoreClient) BreakerState(route string) gobreaker.State {
	return c.breakers[route].State()
}

// Products fetches every product record.
func (c *StoreClient) Products(ctx context.Context) ([]catalog.RemoteProduct, error) {
	var records []catalog.RemoteProduct
	if err := c.getJSON(ctx, RouteProducts, "/products", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Categories fetches the category labels.
func (c *StoreClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, RouteCategories, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ProductsByCategory fetches the product records in category.
func (c *StoreClient) ProductsByCategory(ctx context.Context, category string) ([]catalog.RemoteProduct, error) {
	var records []catalog.RemoteProduct
	if err := c.getJSON(ctx, RouteByCategory, "/products/category/"+url.PathEscape(category), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *StoreClient) getJSON(ctx context.Context, route, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breakers[route].Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}
