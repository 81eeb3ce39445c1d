// internal/cart/domain.go
package cart

// DefaultStorageKey names the durable slot the cart is persisted under.
const DefaultStorageKey = "fashionista_cart"

// LineItem is one (product, size) purchase intent. Display fields are captured when
// the line is first added and are not refreshed afterwards.
type LineItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size"`
	Description string  `json:"description"`
}

// Key identifies a line. The same product in two sizes is two lines.
type Key struct {
	ID   int
	Size string
}

// Key returns the line's uniqueness key.
func (l LineItem) Key() Key {
	return Key{ID: l.ID, Size: l.Size}
}
