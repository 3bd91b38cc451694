package catalog

import (
	"encoding/json"
	"io"
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
}

func fixtureProducts() []Product {
	return []Product{
		{
			ID: 1, Name: "Camiseta Roja", Price: decimal.NewFromInt(100), CategoryID: 1,
			Variants: []Variant{{ID: 11, Size: "M", Color: "Rojo", Stock: 5, SKU: "CR-M"}},
		},
		{
			ID: 2, Name: "Pantalón", Description: "Tela roja de lino", Price: decimal.NewFromInt(200), CategoryID: 2,
			Variants: []Variant{{ID: 21, Size: "L", Color: "Azul", Stock: 0, SKU: "PA-L"}},
		},
		{
			ID: 3, Name: "Chaqueta", Price: decimal.NewFromInt(300), CategoryID: 1,
			Variants: []Variant{
				{ID: 31, Size: "M", Color: "Negro", Stock: 2, SKU: "CH-M"},
				{ID: 32, Size: "S", Color: "Rojo", Stock: 1, SKU: "CH-S"},
			},
		},
		{ID: 4, Name: "Gorra", Price: decimal.NewFromInt(50)},
	}
}

func datasetFS(t *testing.T, items []Product) fstest.MapFS {
	t.Helper()
	var file datasetFile
	file.Data.Items = items
	raw, err := json.Marshal(file)
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	return fstest.MapFS{"products.json": {Data: raw}}
}

func productIDs(items []Product) []int64 {
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}
