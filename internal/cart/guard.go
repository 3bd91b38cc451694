package cart

import (
	"fmt"

	"github.com/angelmondragon/moda-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
)

const (
	MsgSelectVariant   = "Seleccione una variante"
	MsgOutOfStock      = "Variante sin stock"
	MsgAboveStock      = "Cantidad mayor al stock disponible"
	MsgInvalidQuantity = "Cantidad inválida"
)

// CheckStock validates a requested quantity against the variant's stock before it
// reaches a Store. Quantity already in the cart is not taken into account.
func CheckStock(v *catalog.Variant, quantity int) error {
	if v == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, MsgSelectVariant)
	}
	if !v.InStock() {
		return pkgerrors.New(pkgerrors.CodeValidation, MsgOutOfStock).
			WithDetails(map[string]any{"variant_id": v.ID, "available": 0})
	}
	if quantity > v.Stock {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("No hay suficiente stock. Disponible: %d", v.Stock)).
			WithDetails(map[string]any{"variant_id": v.ID, "available": v.Stock, "requested": quantity})
	}
	return nil
}
