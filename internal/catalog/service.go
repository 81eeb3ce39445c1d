// internal/catalog/service.go
package catalog

import (
	"context"
)

// Source acquires catalog data, degrading to local data when the remote endpoint is unavailable.
type Source interface {
	FetchItems(ctx context.Context) ([]Item, error)
	FetchCategories(ctx context.Context) []string
	FetchItemsByCategory(ctx context.Context, category string) []Item
}

// Remote is the primary catalog endpoint.
type Remote interface {
	Products(ctx context.Context) ([]RemoteProduct, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]RemoteProduct, error)
}

// Static is the secondary item source, already in Item shape.
type Static interface {
	Products(ctx context.Context) ([]Item, error)
}
