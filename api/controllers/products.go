package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/moda-storefront/api/responses"
	"github.com/angelmondragon/moda-storefront/api/validators"
	"github.com/angelmondragon/moda-storefront/internal/catalog"
	"github.com/angelmondragon/moda-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/pagination"
)

const (
	maxSearchLength = 100
	maxFilterLength = 40
	maxPage         = 10000
	maxPageSize     = 100
)

// ProductCatalog is the read side of the catalog resolver.
type ProductCatalog interface {
	ListProducts(ctx context.Context, q catalog.Query) (catalog.Result, error)
	GetProduct(ctx context.Context, id int64) (catalog.Product, enums.CatalogSource, error)
}

type productListResponse struct {
	catalog.Result
	Pagination pagination.Meta     `json:"pagination"`
	Filters    catalog.FilterIndex `json:"filters"`
}

type productResponse struct {
	catalog.Product
	Source enums.CatalogSource `json:"source"`
}

// ProductsList serves GET /api/v1/products?page&size&q&categoria&talla&color.
func ProductsList(svc ProductCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		query, err := parseProductQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.Items == nil {
			result.Items = []catalog.Product{}
		}

		responses.WriteSuccess(w, productListResponse{
			Result:     result,
			Pagination: pagination.NewMeta(result.Page.Page, result.Size, result.Total),
			Filters:    catalog.BuildFilterIndex(result.Items),
		})
	}
}

func parseProductQuery(r *http.Request) (catalog.Query, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
	if err != nil {
		return catalog.Query{}, err
	}
	size, err := validators.ParseQueryInt(r, "size", pagination.DefaultSize, 1, maxPageSize)
	if err != nil {
		return catalog.Query{}, err
	}
	category, err := validators.ParseQueryID(r, "categoria")
	if err != nil {
		return catalog.Query{}, err
	}
	q := r.URL.Query()
	return catalog.Query{
		Page:       page,
		PageSize:   size,
		SearchText: validators.SanitizeString(q.Get("q"), maxSearchLength),
		CategoryID: category,
		Size:       validators.SanitizeString(q.Get("talla"), maxFilterLength),
		Color:      validators.SanitizeString(q.Get("color"), maxFilterLength),
	}, nil
}

func ProductsShow(svc ProductCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, source, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productResponse{Product: product, Source: source})
	}
}
