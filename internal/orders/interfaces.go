package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/moda-storefront/pkg/db/models"
)

// Backend is one place orders can live: the remote API or the local order book.
type Backend interface {
	Create(ctx context.Context, input CreateInput) (Confirmation, error)
	ListByUser(ctx context.Context, userID int64, page, size int) (List, error)
	Get(ctx context.Context, id int64) (Order, error)
}

// Repository defines persistence operations for the local order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindOrder(ctx context.Context, id int64) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID int64, offset, limit int) ([]models.Order, int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
