// internal/catalog/domain.go
package catalog

// Item represents a sellable product in the storefront catalog.
type Item struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Material    string   `json:"material"`
	Fit         string   `json:"fit"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

// Snapshot is the full set of items and categories as of the last acquisition.
// Categories come from a separate endpoint and may not match the items' own categories.
type Snapshot struct {
	Items      []Item   `json:"items"`
	Categories []string `json:"categories"`
}

// StaticDocument is the shape of the bundled fallback resource.
type StaticDocument struct {
	Products []Item `json:"products"`
}

// RemoteRating is the nested rating object returned by the remote endpoint.
type RemoteRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// RemoteProduct is a record in the remote endpoint's native shape.
type RemoteProduct struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Price       float64       `json:"price"`
	Image       string        `json:"image"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Rating      *RemoteRating `json:"rating,omitempty"`
}

// Defaults injected for fields the remote endpoint does not provide.
const (
	DefaultMaterial = "100% Cotton"
	DefaultFit      = "Regular Fit"
	DefaultRating   = 4.0
	DefaultColor    = "Default"
)

// DefaultSizes returns the size set assigned to remote products.
func DefaultSizes() []string {
	return []string{"S", "M", "L", "XL"}
}

// DefaultCategories returns the category list used when the category endpoint fails.
func DefaultCategories() []string {
	return []string{"Tops", "Pants", "Shirts", "Dresses"}
}

// ToItem remaps a remote record into the Item shape.
func (p RemoteProduct) ToItem() Item {
	rating := DefaultRating
	if p.Rating != nil && p.Rating.Rate != 0 {
		rating = p.Rating.Rate
	}

	return Item{
		ID:          p.ID,
		Name:        p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Rating:      rating,
		Material:    DefaultMaterial,
		Fit:         DefaultFit,
		Sizes:       DefaultSizes(),
		Colors:      []string{DefaultColor},
	}
}

func remapProducts(records []RemoteProduct) []Item {
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, r.ToItem())
	}
	return items
}
