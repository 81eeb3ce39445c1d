package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/pkg/slotstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedSource struct {
	items []catalog.Item
}

func (s fixedSource) FetchItems(context.Context) ([]catalog.Item, error) { return s.items, nil }
func (s fixedSource) FetchCategories(context.Context) []string           { return catalog.DefaultCategories() }
func (s fixedSource) FetchItemsByCategory(_ context.Context, category string) []catalog.Item {
	return catalog.FilterByCategory(s.items, category)
}

func newTestServer(t *testing.T) (http.Handler, *cart.Cart) {
	t.Helper()

	src := fixedSource{items: []catalog.Item{
		{ID: 1, Name: "Classic White Tee", Price: 19.99, Category: "Tops", Image: "tee.jpg", Description: "Soft cotton tee"},
		{ID: 2, Name: "Tailored Chino Pants", Price: 49, Category: "Pants"},
	}}
	manager := catalog.NewManager(context.Background(), src, zap.NewNop())
	t.Cleanup(manager.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, manager.Current().Wait(ctx))

	c, err := cart.Open(context.Background(), slotstore.NewMemory(), "", nil)
	require.NoError(t, err)

	return New(manager, c, zap.NewNop()), c
}

func TestServer_Healthz(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_PropagatesRequestID(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestServer_AddToCartCapturesCatalogFields(t *testing.T) {
	h, c := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"id":1,"size":"L","quantity":2}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, cart.LineItem{
		ID:          1,
		Name:        "Classic White Tee",
		Price:       19.99,
		Image:       "tee.jpg",
		Description: "Soft cotton tee",
		Size:        "L",
		Quantity:    2,
	}, lines[0])
}

func TestServer_UnknownProductNotAdded(t *testing.T) {
	h, c := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"id":99,"size":"L"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, c.Lines())
}

func TestServer_CatalogRoutesMounted(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&categories))
	assert.Equal(t, catalog.DefaultCategories(), categories)
}
