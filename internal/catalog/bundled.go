// internal/catalog/bundled.go
package catalog

import (
	_ "embed"
)

// BundledProducts is the static fallback document shipped inside the binary.
//
//go:embed static/products.json
var BundledProducts []byte
