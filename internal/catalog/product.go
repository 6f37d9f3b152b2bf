package catalog

import "github.com/shopspring/decimal"

// Artisan identifies the maker shown on product cards.
type Artisan struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Product mirrors the catalog payload served by the external backend.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	OnSale      bool             `json:"on_sale"`
	Images      []string         `json:"images"`
	Tags        []string         `json:"tags"`
	Artisan     Artisan          `json:"artisan"`
}

// FeaturedImage returns the first image reference, if any.
func (p Product) FeaturedImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
