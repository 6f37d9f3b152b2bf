package search

import (
	"strings"

	"github.com/medinasouk/storefront-backend/internal/catalog"
)

// Filter returns the products matching the query with a case-insensitive
// substring test across display fields. Linear over the full catalog; fine
// while the catalog stays small.
func Filter(products []catalog.Product, query string) []catalog.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	matched := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Matches tests one product against a lowercased needle.
func Matches(p catalog.Product, needle string) bool {
	fields := []string{
		p.Name,
		p.Description,
		p.Category,
		p.Artisan.Name,
		p.Artisan.Location,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
