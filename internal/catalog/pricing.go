package catalog

import "github.com/shopspring/decimal"

// EffectiveUnitPrice resolves the price a shopper pays right now: the sale
// price when the product is flagged on sale and carries one, the regular
// price otherwise. Cart lines capture this value once at add time and never
// re-read it.
func EffectiveUnitPrice(p Product) decimal.Decimal {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
