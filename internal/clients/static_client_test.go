package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallbackDoc = `{"products":[
	{"id":1,"name":"Classic Tee","price":19.99,"category":"Tops","rating":4.4,"material":"Organic Cotton","fit":"Relaxed","sizes":["S","M"],"colors":["White"]}
]}`

func TestStaticClient_Bundled(t *testing.T) {
	client := NewStaticClient("", nil)
	assert.Equal(t, "bundled", client.Location())

	items, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 8)
	for _, item := range items {
		assert.NotEmpty(t, item.Name)
		assert.Contains(t, []string{"Tops", "Pants", "Shirts", "Dresses"}, item.Category)
	}
}

func TestStaticClient_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(fallbackDoc), 0o644))

	client := NewStaticClient(path, nil)
	items, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Organic Cotton", items[0].Material)
	assert.Equal(t, "Relaxed", items[0].Fit)
	assert.Equal(t, 4.4, items[0].Rating)
	assert.Equal(t, []string{"S", "M"}, items[0].Sizes)
}

func TestStaticClient_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fallbackDoc))
	}))
	defer srv.Close()

	items, err := NewStaticClient(srv.URL+"/products.json", srv.Client()).Products(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Classic Tee", items[0].Name)
}

func TestStaticClient_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewStaticClient(srv.URL, nil).Products(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestStaticClient_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	_, err := NewStaticClient(filepath.Join(dir, "missing.json"), nil).Products(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewStaticClient(write("corrupt.json", "{"), nil).Products(context.Background())
	assert.Error(t, err)

	_, err = NewStaticClient(write("empty.json", `{"items":[]}`), nil).Products(context.Background())
	assert.ErrorIs(t, err, ErrNoProducts)

	items, err := NewStaticClient(write("none.json", `{"products":[]}`), nil).Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
