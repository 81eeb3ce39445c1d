// internal/cart/service.go
package cart

import (
	"context"
)

// Service defines the interface for the shopping cart.
type Service interface {
	AddItem(ctx context.Context, line LineItem) error
	RemoveItem(ctx context.Context, id int, size string) error
	UpdateQuantity(ctx context.Context, id int, size string, quantity int) error
	ClearCart(ctx context.Context) error
	Lines() []LineItem
	TotalItems() int
	TotalPrice() float64
	ItemCount(id int, size string) int
}
