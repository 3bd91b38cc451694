package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/pkg/enums"
)

// Order is a locally recorded order, written when the storefront runs offline.
type Order struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64               `gorm:"column:user_id;not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;size:32;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;size:32;not null"`
	ShippingAddress string              `gorm:"column:shipping_address;type:text;not null"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(14,2);not null"`
	Shipping        decimal.Decimal     `gorm:"column:shipping;type:numeric(14,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(14,2);not null"`
	Items           []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
