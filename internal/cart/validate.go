// internal/cart/validate.go
package cart

import (
	"errors"
	"strings"
)

var (
	ErrProductRequired     = errors.New("product is required")
	ErrSizeRequired        = errors.New("please select a size")
	ErrQuantityNotPositive = errors.New("quantity must be positive")
)

// ValidateLine reports whether line is ready to be added. The cart itself does not call
// this; callers check before invoking AddItem.
func ValidateLine(line LineItem) error {
	if line.ID <= 0 {
		return ErrProductRequired
	}
	if strings.TrimSpace(line.Size) == "" {
		return ErrSizeRequired
	}
	if line.Quantity <= 0 {
		return ErrQuantityNotPositive
	}
	return nil
}
