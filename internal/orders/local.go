package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/moda-storefront/pkg/db"
	"github.com/angelmondragon/moda-storefront/pkg/db/models"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/pagination"
)

// LocalBackend is the offline order book. Orders are accepted immediately with
// status CONFIRMADO.
type LocalBackend struct {
	repo Repository
	tx   txRunner
}

func NewLocalBackend(repo Repository, tx txRunner) (*LocalBackend, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &LocalBackend{repo: repo, tx: tx}, nil
}

func (b *LocalBackend) Create(ctx context.Context, input CreateInput) (Confirmation, error) {
	order := &models.Order{
		UserID:          input.UserID,
		Status:          enums.OrderStatusConfirmed,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		Subtotal:        input.Subtotal,
		Shipping:        input.Shipping,
		Total:           input.Total(),
	}

	err := b.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := b.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		items := make([]models.OrderLineItem, 0, len(input.Items))
		for _, it := range input.Items {
			items = append(items, lineItemModel(order.ID, it))
		}
		return repo.CreateOrderLineItems(ctx, items)
	})
	if dbpkg.IsUniqueViolation(err, "") {
		return Confirmation{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, MsgDuplicateLine)
	}
	if err != nil {
		return Confirmation{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, MsgCreateFailed)
	}
	return Confirmation{OrderID: order.ID, Status: order.Status}, nil
}

func (b *LocalBackend) ListByUser(ctx context.Context, userID int64, page, size int) (List, error) {
	rows, total, err := b.repo.ListUserOrders(ctx, userID, pagination.Offset(page, size), size)
	if err != nil {
		return List{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, MsgListFailed)
	}
	list := List{Items: make([]Order, 0, len(rows)), Page: page, Size: size, Total: int(total)}
	for i := range rows {
		list.Items = append(list.Items, orderFromModel(&rows[i]))
	}
	return list, nil
}

func (b *LocalBackend) Get(ctx context.Context, id int64) (Order, error) {
	row, err := b.repo.FindOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, MsgOrderNotFound)
	}
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return orderFromModel(row), nil
}

func lineItemModel(orderID int64, it Item) models.OrderLineItem {
	return models.OrderLineItem{
		OrderID:   orderID,
		VariantID: it.VariantID,
		ProductID: it.ProductID,
		Name:      optional(it.Name),
		Size:      optional(it.Size),
		Color:     optional(it.Color),
		ImageURL:  optional(it.ImageURL),
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Subtotal:  it.Subtotal,
	}
}

func orderFromModel(m *models.Order) Order {
	out := Order{
		ID:              m.ID,
		UserID:          m.UserID,
		CreatedAt:       m.CreatedAt,
		Subtotal:        m.Subtotal,
		Shipping:        m.Shipping,
		Total:           m.Total,
		Status:          m.Status,
		PaymentMethod:   m.PaymentMethod,
		ShippingAddress: m.ShippingAddress,
		Items:           make([]Item, 0, len(m.Items)),
	}
	for _, li := range m.Items {
		out.Items = append(out.Items, Item{
			VariantID: li.VariantID,
			ProductID: li.ProductID,
			Name:      deref(li.Name),
			Size:      deref(li.Size),
			Color:     deref(li.Color),
			ImageURL:  deref(li.ImageURL),
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  li.Subtotal,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
