package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/moda-storefront/internal/catalog"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
)

type productLookup interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, enums.CatalogSource, error)
}

// View is the cart as rendered to shoppers.
type View struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// NewView derives totals from a line snapshot.
func NewView(lines []Line) View {
	if lines == nil {
		lines = []Line{}
	}
	return View{Items: lines, Total: totalOf(lines), Count: countOf(lines)}
}

// AddInput identifies the product variant to add. Quantity 0 means 1.
type AddInput struct {
	ProductID int64
	VariantID int64
	Quantity  int
}

// Service exposes profile-scoped cart operations for the HTTP and CLI surfaces.
type Service interface {
	Get(ctx context.Context, profile string) (View, error)
	AddVariant(ctx context.Context, profile string, input AddInput) (View, error)
	UpdateQuantity(ctx context.Context, profile string, variantID int64, quantity int) (View, error)
	Remove(ctx context.Context, profile string, variantID int64) (View, error)
	Clear(ctx context.Context, profile string) (View, error)
	Watch(ctx context.Context, profile string) (<-chan View, error)
}

type service struct {
	registry *Registry
	products productLookup
}

func NewService(registry *Registry, products productLookup) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{registry: registry, products: products}, nil
}

func (s *service) Get(ctx context.Context, profile string) (View, error) {
	store, err := s.registry.Store(ctx, profile)
	if err != nil {
		return View{}, err
	}
	return NewView(store.Lines()), nil
}

// AddVariant resolves the product, checks stock and adds the variant with its
// display metadata.
func (s *service) AddVariant(ctx context.Context, profile string, input AddInput) (View, error) {
	if input.Quantity < 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidQuantity)
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.VariantID <= 0 {
		return View{}, CheckStock(nil, input.Quantity)
	}
	store, err := s.registry.Store(ctx, profile)
	if err != nil {
		return View{}, err
	}

	product, _, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return View{}, err
	}
	variant, ok := product.Variant(input.VariantID)
	if !ok {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "Variante no encontrada").
			WithDetails(map[string]any{"product_id": product.ID, "variant_id": input.VariantID})
	}
	if err := CheckStock(&variant, input.Quantity); err != nil {
		return View{}, err
	}

	stock := variant.Stock
	productID := product.ID
	store.AddItem(ctx, variant.ID, input.Quantity, &productID, &Meta{
		Name:      product.Name,
		ImageURL:  product.ImageFor(variant),
		Size:      variant.Size,
		Color:     variant.Color,
		UnitPrice: product.Price,
		Stock:     &stock,
	})
	return NewView(store.Lines()), nil
}

// UpdateQuantity rejects quantities above the stock recorded on the line.
func (s *service) UpdateQuantity(ctx context.Context, profile string, variantID int64, quantity int) (View, error) {
	store, err := s.registry.Store(ctx, profile)
	if err != nil {
		return View{}, err
	}
	if line, ok := store.Line(variantID); ok && line.Stock != nil && quantity > *line.Stock {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, MsgAboveStock).
			WithDetails(map[string]any{"variant_id": variantID, "available": *line.Stock, "requested": quantity})
	}
	store.SetQuantity(ctx, variantID, quantity)
	return NewView(store.Lines()), nil
}

func (s *service) Remove(ctx context.Context, profile string, variantID int64) (View, error) {
	store, err := s.registry.Store(ctx, profile)
	if err != nil {
		return View{}, err
	}
	store.RemoveItem(ctx, variantID)
	return NewView(store.Lines()), nil
}

func (s *service) Clear(ctx context.Context, profile string) (View, error) {
	store, err := s.registry.Store(ctx, profile)
	if err != nil {
		return View{}, err
	}
	store.Clear(ctx)
	return NewView(store.Lines()), nil
}

// Watch streams a View per published snapshot, starting with the current one,
// until ctx is done.
func (s *service) Watch(ctx context.Context, profile string) (<-chan View, error) {
	store, err := s.registry.Store(ctx, profile)
	if err != nil {
		return nil, err
	}
	lines := store.Watch(ctx)
	out := make(chan View)
	go func() {
		defer close(out)
		for snapshot := range lines {
			select {
			case out <- NewView(snapshot):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
