package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
)

const (
	MsgCreateFailed  = "Error creando pedido"
	MsgListFailed    = "Error al cargar pedidos"
	MsgOrderNotFound = "Pedido no encontrado"
	MsgDuplicateLine = "El pedido repite una variante"
)

// Item is an ordered variant with the snapshot taken at checkout.
type Item struct {
	VariantID int64           `json:"variant_id"`
	ProductID *int64          `json:"producto_id,omitempty"`
	Name      string          `json:"nombre,omitempty"`
	Size      string          `json:"talla,omitempty"`
	Color     string          `json:"color,omitempty"`
	ImageURL  string          `json:"imagen_url,omitempty"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"usuario_id"`
	CreatedAt       time.Time           `json:"fecha"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Shipping        decimal.Decimal     `json:"envio"`
	Total           decimal.Decimal     `json:"total"`
	Status          enums.OrderStatus   `json:"estado"`
	PaymentMethod   enums.PaymentMethod `json:"metodo_pago,omitempty"`
	ShippingAddress string              `json:"direccion_envio,omitempty"`
	Items           []Item              `json:"items"`
}

// List is one page of a user's order history.
type List struct {
	Items []Order `json:"items"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
	Total int     `json:"total"`
}

// CreateInput is everything needed to place an order. Only the variant ids and
// quantities travel to the remote API; the rest is kept by the local order book.
type CreateInput struct {
	UserID          int64
	PaymentMethod   enums.PaymentMethod
	ShippingAddress string
	Items           []Item
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
}

func (in CreateInput) Total() decimal.Decimal {
	return in.Subtotal.Add(in.Shipping)
}

// Confirmation is returned once an order is accepted.
type Confirmation struct {
	OrderID int64             `json:"pedido_id"`
	Status  enums.OrderStatus `json:"estado"`
}
