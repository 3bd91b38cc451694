package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/internal/cart"
	"github.com/angelmondragon/moda-storefront/internal/orders"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

type cartAccess interface {
	Get(ctx context.Context, profile string) (cart.View, error)
	Clear(ctx context.Context, profile string) (cart.View, error)
}

type orderCreator interface {
	Create(ctx context.Context, input orders.CreateInput) (orders.Confirmation, error)
}

// Options carries checkout settings from config.
type Options struct {
	ShippingFee   decimal.Decimal
	DefaultUserID int64
}

// Result is returned once the order has been accepted.
type Result struct {
	OrderID  int64             `json:"pedido_id"`
	Status   enums.OrderStatus `json:"estado"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Shipping decimal.Decimal   `json:"envio"`
	Total    decimal.Decimal   `json:"total"`
}

// Service turns a profile's cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, profile string, userID int64, input Input) (Result, error)
	Quote(ctx context.Context, profile string) (Quote, error)
}

// Quote is the pre-submit summary shown next to the checkout form.
type Quote struct {
	Items    []cart.Line     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"envio"`
	Total    decimal.Decimal `json:"total"`
}

type service struct {
	carts  cartAccess
	orders orderCreator
	opts   Options
	logg   *logger.Logger
}

func NewService(carts cartAccess, creator orderCreator, opts Options, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if creator == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.DefaultUserID <= 0 {
		opts.DefaultUserID = 1
	}
	return &service{carts: carts, orders: creator, opts: opts, logg: logg}, nil
}

func (s *service) shippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return s.opts.ShippingFee
	}
	return decimal.Zero
}

func (s *service) Quote(ctx context.Context, profile string) (Quote, error) {
	view, err := s.carts.Get(ctx, profile)
	if err != nil {
		return Quote{}, err
	}
	shipping := s.shippingFor(view.Total)
	return Quote{
		Items:    view.Items,
		Subtotal: view.Total,
		Shipping: shipping,
		Total:    view.Total.Add(shipping),
	}, nil
}

// PlaceOrder validates the form, submits the cart contents and clears the cart
// once the order is accepted. A userID of 0 uses the configured shopper.
func (s *service) PlaceOrder(ctx context.Context, profile string, userID int64, input Input) (Result, error) {
	input = input.normalized()
	method, err := input.Validate()
	if err != nil {
		return Result{}, err
	}
	if userID <= 0 {
		userID = s.opts.DefaultUserID
	}

	view, err := s.carts.Get(ctx, profile)
	if err != nil {
		return Result{}, err
	}
	if len(view.Items) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, MsgEmptyCart)
	}

	items := make([]orders.Item, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, orders.Item{
			VariantID: line.VariantID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Color:     line.Color,
			ImageURL:  line.ImageURL,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}

	request := orders.CreateInput{
		UserID:          userID,
		PaymentMethod:   method,
		ShippingAddress: input.Address,
		Items:           items,
		Subtotal:        view.Total,
		Shipping:        s.shippingFor(view.Total),
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"profile": profile, "user_id": userID, "items": len(items)})
	confirmation, err := s.orders.Create(ctx, request)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return Result{}, typed
		}
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, orders.MsgCreateFailed)
	}

	if _, err := s.carts.Clear(ctx, profile); err != nil {
		s.logg.Error(ctx, "checkout.clear_cart_failed", err)
	}
	s.logg.Info(s.logg.WithField(ctx, "pedido_id", confirmation.OrderID), "checkout.order_placed")

	return Result{
		OrderID:  confirmation.OrderID,
		Status:   confirmation.Status,
		Subtotal: request.Subtotal,
		Shipping: request.Shipping,
		Total:    request.Total(),
	}, nil
}
