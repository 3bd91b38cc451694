package models

import "github.com/shopspring/decimal"

// OrderLineItem snapshots a cart line at checkout time.
type OrderLineItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	VariantID int64           `gorm:"column:variant_id;not null"`
	ProductID *int64          `gorm:"column:product_id"`
	Name      *string         `gorm:"column:name"`
	Size      *string         `gorm:"column:size"`
	Color     *string         `gorm:"column:color"`
	ImageURL  *string         `gorm:"column:image_url"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }
