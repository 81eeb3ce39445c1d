// internal/catalog/filter.go
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the field a projection is ordered by.
type SortKey string

const (
	SortByName   SortKey = "name"
	SortByPrice  SortKey = "price"
	SortByRating SortKey = "rating"
)

// SortOrder selects the projection direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortKey validates a sort key from user input.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortByName, SortByPrice, SortByRating:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort key %q", s)
	}
}

// ParseSortOrder validates a sort order from user input.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case Ascending, Descending:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order %q", s)
	}
}

// Criteria holds the active search, filter, and sort parameters.
// MinPrice > MaxPrice is not rejected; it simply matches nothing.
type Criteria struct {
	Search    string    `json:"search"`
	Category  string    `json:"category"`
	MinPrice  float64   `json:"minPrice"`
	MaxPrice  float64   `json:"maxPrice"`
	SortBy    SortKey   `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// DefaultCriteria returns the criteria a fresh view-model starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Search:    "",
		Category:  "",
		MinPrice:  0,
		MaxPrice:  1000,
		SortBy:    SortByName,
		SortOrder: Ascending,
	}
}

// CriteriaUpdate is a partial Criteria. Nil fields keep their current value.
type CriteriaUpdate struct {
	Search    *string    `json:"search,omitempty"`
	Category  *string    `json:"category,omitempty"`
	MinPrice  *float64   `json:"minPrice,omitempty"`
	MaxPrice  *float64   `json:"maxPrice,omitempty"`
	SortBy    *SortKey   `json:"sortBy,omitempty"`
	SortOrder *SortOrder `json:"sortOrder,omitempty"`
}

// Merge returns c with every non-nil field of u applied.
func (c Criteria) Merge(u CriteriaUpdate) Criteria {
	if u.Search != nil {
		c.Search = *u.Search
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.MinPrice != nil {
		c.MinPrice = *u.MinPrice
	}
	if u.MaxPrice != nil {
		c.MaxPrice = *u.MaxPrice
	}
	if u.SortBy != nil {
		c.SortBy = *u.SortBy
	}
	if u.SortOrder != nil {
		c.SortOrder = *u.SortOrder
	}
	return c
}

// Project derives the filtered and sorted view of items. The input slice is not modified.
func Project(items []Item, c Criteria) []Item {
	search := strings.ToLower(c.Search)

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if c.Category != "" && !strings.EqualFold(item.Category, c.Category) {
			continue
		}
		if item.Price < c.MinPrice || item.Price > c.MaxPrice {
			continue
		}
		out = append(out, item)
	}

	compare := comparator(c.SortBy)
	if c.SortOrder == Descending {
		slices.SortStableFunc(out, func(a, b Item) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}

	return out
}

// FilterByCategory keeps items whose category matches case-insensitively.
func FilterByCategory(items []Item, category string) []Item {
	out := make([]Item, 0)
	for _, item := range items {
		if strings.EqualFold(item.Category, category) {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch(item Item, lowered string) bool {
	return strings.Contains(strings.ToLower(item.Name), lowered) ||
		strings.Contains(strings.ToLower(item.Description), lowered) ||
		strings.Contains(strings.ToLower(item.Category), lowered)
}

func comparator(key SortKey) func(a, b Item) int {
	switch key {
	case SortByPrice:
		return func(a, b Item) int { return cmp.Compare(a.Price, b.Price) }
	case SortByRating:
		return func(a, b Item) int { return cmp.Compare(a.Rating, b.Rating) }
	default:
		return func(a, b Item) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}
