package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCatalogSource_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			json.NewEncoder(w).Encode([]catalog.RemoteProduct{{ID: 9, Title: "Parka", Price: 120}})
		case "/products/categories":
			json.NewEncoder(w).Encode([]string{"Outerwear"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := config.DefaultConfig().Catalog
	cfg.BaseURL = srv.URL
	src := NewCatalogSource(cfg, nil, zap.NewNop())

	items, err := src.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Parka", items[0].Name)
	assert.Equal(t, catalog.DefaultFit, items[0].Fit)
	assert.Equal(t, []string{"Outerwear"}, src.FetchCategories(context.Background()))
}

func TestNewCatalogSource_FallsBackToBundled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig().Catalog
	cfg.BaseURL = srv.URL
	src := NewCatalogSource(cfg, nil, zap.NewNop())

	items, err := src.FetchItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 8)
}

func TestOpenCartStore_Backends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, cfg := range []config.CartConfig{
		{Backend: config.BackendMemory},
		{Backend: config.BackendFile, Path: filepath.Join(dir, "files")},
		{Backend: config.BackendSQLite, Path: filepath.Join(dir, "cart.db")},
	} {
		t.Run(cfg.Backend, func(t *testing.T) {
			store, closeStore, err := OpenCartStore(ctx, cfg)
			require.NoError(t, err)
			defer closeStore()

			require.NoError(t, store.Put(ctx, "k", []byte(`[]`)))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}

	_, _, err := OpenCartStore(ctx, config.CartConfig{Backend: "redis"})
	assert.Error(t, err)
}

func TestOpenCart_Persists(t *testing.T) {
	ctx := context.Background()
	cfg := config.CartConfig{Backend: config.BackendSQLite, Path: filepath.Join(t.TempDir(), "cart.db")}

	c, closeCart, err := OpenCart(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	item := catalog.Item{ID: 4, Name: "Relaxed Linen Trousers", Price: 59.99, Image: "linen.jpg"}
	require.NoError(t, c.AddItem(ctx, LineFromItem(item, "M", 2)))
	require.NoError(t, closeCart())

	c, closeCart, err = OpenCart(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeCart()
	assert.Equal(t, 2, c.ItemCount(4, "M"))
	assert.Equal(t, "Relaxed Linen Trousers", c.Lines()[0].Name)
}
