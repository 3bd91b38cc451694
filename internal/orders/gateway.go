package orders

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
)

const (
	defaultListSize = 10
	maxListSize     = 100
)

// GatewayOptions are injected by the caller.
type GatewayOptions struct {
	// Offline routes every call to the local order book.
	Offline bool
}

// Gateway routes order operations to the remote API, or to the local order book
// when offline. Remote failures are returned, never retried locally.
type Gateway struct {
	backend Backend
	mode    string
}

func NewGateway(remote, local Backend, opts GatewayOptions) (*Gateway, error) {
	if opts.Offline || remote == nil {
		if local == nil {
			return nil, fmt.Errorf("offline orders need a local backend")
		}
		return &Gateway{backend: local, mode: "local"}, nil
	}
	return &Gateway{backend: remote, mode: "remote"}, nil
}

// Mode is "remote" or "local".
func (g *Gateway) Mode() string { return g.mode }

func (g *Gateway) Create(ctx context.Context, input CreateInput) (Confirmation, error) {
	if input.UserID <= 0 {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "usuario_id requerido")
	}
	if len(input.Items) == 0 {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "El pedido no tiene productos")
	}
	for _, it := range input.Items {
		if it.VariantID <= 0 || it.Quantity <= 0 {
			return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "Producto inválido en el pedido").
				WithDetails(map[string]any{"variant_id": it.VariantID, "cantidad": it.Quantity})
		}
	}
	return g.backend.Create(ctx, input)
}

func (g *Gateway) ListByUser(ctx context.Context, userID int64, page, size int) (List, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultListSize
	}
	if size > maxListSize {
		size = maxListSize
	}
	return g.backend.ListByUser(ctx, userID, page, size)
}

func (g *Gateway) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "id de pedido inválido")
	}
	return g.backend.Get(ctx, id)
}
