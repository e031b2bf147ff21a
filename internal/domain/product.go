package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. FinalPrice already includes VAT and is
// maintained by the catalog owner.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name,omitempty"`
	BasePrice    decimal.Decimal `json:"base_price"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	Stock        int             `json:"stock"`
	Active       bool            `json:"active"`
}
