// internal/catalog/fingerprint.go
package catalog

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a content hash of items, suitable as an HTTP entity tag.
// Equal sequences in equal order produce equal fingerprints.
func Fingerprint(items []Item) string {
	data, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
