package catalog

import "fmt"

type CategoryOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FilterIndex lists the filter values observed on the current page.
type FilterIndex struct {
	Categories []CategoryOption `json:"categories"`
	Sizes      []string         `json:"sizes"`
	Colors     []string         `json:"colors"`
}

// BuildFilterIndex collects distinct categories, sizes and colors in order of first
// occurrence. Category names are synthesized from the id.
func BuildFilterIndex(items []Product) FilterIndex {
	idx := FilterIndex{
		Categories: []CategoryOption{},
		Sizes:      []string{},
		Colors:     []string{},
	}
	seenCat := map[int64]struct{}{}
	seenSize := map[string]struct{}{}
	seenColor := map[string]struct{}{}

	for _, p := range items {
		if p.CategoryID != 0 {
			if _, ok := seenCat[p.CategoryID]; !ok {
				seenCat[p.CategoryID] = struct{}{}
				idx.Categories = append(idx.Categories, CategoryOption{
					ID:   p.CategoryID,
					Name: fmt.Sprintf("Categoría %d", p.CategoryID),
				})
			}
		}
		for _, v := range p.Variants {
			if v.Size != "" {
				if _, ok := seenSize[v.Size]; !ok {
					seenSize[v.Size] = struct{}{}
					idx.Sizes = append(idx.Sizes, v.Size)
				}
			}
			if v.Color != "" {
				if _, ok := seenColor[v.Color]; !ok {
					seenColor[v.Color] = struct{}{}
					idx.Colors = append(idx.Colors, v.Color)
				}
			}
		}
	}
	return idx
}
