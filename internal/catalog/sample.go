package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
)

// SampleSource serves three placeholder products so a listing is never blank. It
// ignores filters and pagination and always succeeds.
type SampleSource struct{}

func NewSampleSource() *SampleSource { return &SampleSource{} }

func (SampleSource) Name() enums.CatalogSource { return enums.CatalogSourceSample }

func (SampleSource) Online() bool { return false }

func (SampleSource) Placeholder() bool { return true }

func (SampleSource) ListProducts(_ context.Context, q Query) (Page, error) {
	items := sampleProducts()
	return Page{Items: items, Page: 1, Size: q.PageSize, Total: len(items)}, nil
}

func (SampleSource) GetProduct(_ context.Context, id int64) (Product, error) {
	return findProduct(sampleProducts(), id)
}

// Sample ids live outside the range used by the real catalog.
func sampleProducts() []Product {
	return []Product{
		{
			ID:          9001,
			Name:        "Camiseta básica (muestra)",
			Price:       decimal.NewFromInt(39900),
			Description: "Producto de muestra mientras el catálogo no está disponible.",
			CategoryID:  1,
			Variants: []Variant{
				{ID: 900101, Size: "M", Color: "Blanco", Stock: 0, SKU: "SAMPLE-TSHIRT-M"},
			},
		},
		{
			ID:          9002,
			Name:        "Jean clásico (muestra)",
			Price:       decimal.NewFromInt(89900),
			Description: "Producto de muestra mientras el catálogo no está disponible.",
			CategoryID:  2,
			Variants: []Variant{
				{ID: 900201, Size: "32", Color: "Azul", Stock: 0, SKU: "SAMPLE-JEAN-32"},
			},
		},
		{
			ID:          9003,
			Name:        "Chaqueta liviana (muestra)",
			Price:       decimal.NewFromInt(129900),
			Description: "Producto de muestra mientras el catálogo no está disponible.",
			CategoryID:  3,
			Variants: []Variant{
				{ID: 900301, Size: "L", Color: "Negro", Stock: 0, SKU: "SAMPLE-JACKET-L"},
			},
		},
	}
}
