// Package catalog resolves product queries against an ordered chain of sources:
// the remote storefront API, the bundled dataset and an embedded sample.
package catalog

import "github.com/shopspring/decimal"

// Variant is a purchasable size/color combination of a product.
type Variant struct {
	ID       int64  `json:"id"`
	Size     string `json:"talla,omitempty"`
	Color    string `json:"color,omitempty"`
	Stock    int    `json:"stock"`
	SKU      string `json:"sku"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// InStock reports whether at least one unit is available.
func (v Variant) InStock() bool {
	return v.Stock > 0
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio"`
	Description string          `json:"descripcion,omitempty"`
	CategoryID  int64           `json:"categoriaId,omitempty"`
	ImageURL    string          `json:"imagen_url,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
}

// Variant returns the variant with the given id.
func (p Product) Variant(id int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// ImageFor prefers the variant image and falls back to the product image.
func (p Product) ImageFor(v Variant) string {
	if v.ImageURL != "" {
		return v.ImageURL
	}
	return p.ImageURL
}

// Page is one page of a filtered product listing. Total counts the filtered
// result set, not the whole catalog.
type Page struct {
	Items []Product `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int       `json:"total"`
}
