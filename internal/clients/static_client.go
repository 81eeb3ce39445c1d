// internal/clients/static_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"storefront/internal/catalog"
)

// ErrNoProducts is returned when a fallback document lacks a products list.
var ErrNoProducts = errors.New("fallback document has no products")

// StaticClient reads the fallback catalog document. The location may be an http(s) URL,
// a file path, or empty for the dataset bundled in the binary.
type StaticClient struct {
	location   string
	httpClient *http.Client
}

// NewStaticClient creates a fallback reader for location.
func NewStaticClient(location string, httpClient *http.Client) *StaticClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StaticClient{location: location, httpClient: httpClient}
}

// Location returns where the fallback document is read from.
func (c *StaticClient) Location() string {
	if c.location == "" {
		return "bundled"
	}
	return c.location
}

// Products returns the document's products exactly as stored.
func (c *StaticClient) Products(ctx context.Context) ([]catalog.Item, error) {
	body, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var doc catalog.StaticDocument
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode fallback %s: %w", c.Location(), err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoProducts, c.Location())
	}
	return doc.Products, nil
}

func (c *StaticClient) open(ctx context.Context) (io.ReadCloser, error) {
	switch {
	case c.location == "":
		return io.NopCloser(bytes.NewReader(catalog.BundledProducts)), nil

	case strings.HasPrefix(c.location, "http://"), strings.HasPrefix(c.location, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch fallback: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch fallback: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		return resp.Body, nil

	default:
		f, err := os.Open(c.location)
		if err != nil {
			return nil, fmt.Errorf("open fallback: %w", err)
		}
		return f, nil
	}
}
