package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Line is one cart entry. VariantID is unique within a cart.
type Line struct {
	VariantID int64           `json:"variantId"`
	ProductID *int64          `json:"productId,omitempty"`
	Name      string          `json:"nombre,omitempty"`
	ImageURL  string          `json:"imagen_url,omitempty"`
	Size      string          `json:"talla,omitempty"`
	Color     string          `json:"color,omitempty"`
	UnitPrice decimal.Decimal `json:"precio"`
	Quantity  int             `json:"cantidad"`
	Stock     *int            `json:"stock,omitempty"`
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) clone() Line {
	if l.ProductID != nil {
		id := *l.ProductID
		l.ProductID = &id
	}
	if l.Stock != nil {
		s := *l.Stock
		l.Stock = &s
	}
	return l
}

// Meta carries the display fields recorded when a variant is first added.
type Meta struct {
	Name      string
	ImageURL  string
	Size      string
	Color     string
	UnitPrice decimal.Decimal
	Stock     *int
}

// storedLine tolerates partially written entries: a missing price reads as 0 and a
// missing quantity as 1.
type storedLine struct {
	VariantID int64            `json:"variantId"`
	ProductID *int64           `json:"productId"`
	Name      string           `json:"nombre"`
	ImageURL  string           `json:"imagen_url"`
	Size      string           `json:"talla"`
	Color     string           `json:"color"`
	UnitPrice *decimal.Decimal `json:"precio"`
	Quantity  *int             `json:"cantidad"`
	Stock     *int             `json:"stock"`
}

func decodeLines(raw string) ([]Line, error) {
	var stored []storedLine
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(stored))
	index := make(map[int64]int, len(stored))
	for _, s := range stored {
		l := Line{
			VariantID: s.VariantID,
			ProductID: s.ProductID,
			Name:      s.Name,
			ImageURL:  s.ImageURL,
			Size:      s.Size,
			Color:     s.Color,
			Quantity:  1,
			Stock:     s.Stock,
		}
		if s.UnitPrice != nil {
			l.UnitPrice = *s.UnitPrice
		}
		if s.Quantity != nil {
			l.Quantity = *s.Quantity
		}
		if l.Quantity <= 0 {
			continue
		}
		if i, ok := index[l.VariantID]; ok {
			lines[i].Quantity += l.Quantity
			continue
		}
		index[l.VariantID] = len(lines)
		lines = append(lines, l)
	}
	return lines, nil
}

func encodeLines(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
