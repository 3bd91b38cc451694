package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/moda-storefront/api/middleware"
	"github.com/angelmondragon/moda-storefront/api/responses"
	"github.com/angelmondragon/moda-storefront/api/validators"
	"github.com/angelmondragon/moda-storefront/internal/orders"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/pagination"
)

const (
	defaultOrdersPageSize = 10
	maxOrdersPageSize     = 100
)

// OrderHistory is the read side of the orders gateway.
type OrderHistory interface {
	ListByUser(ctx context.Context, userID int64, page, size int) (orders.List, error)
	Get(ctx context.Context, id int64) (orders.Order, error)
}

type orderListResponse struct {
	orders.List
	Pagination pagination.Meta `json:"pagination"`
}

// OrdersList serves the current shopper's order history, newest first.
func OrdersList(svc OrderHistory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "size", defaultOrdersPageSize, 1, maxOrdersPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByUser(r.Context(), middleware.UserIDFromContext(r.Context()), page, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{
			List:       list,
			Pagination: pagination.NewMeta(list.Page, list.Size, list.Total),
		})
	}
}

func OrdersShow(svc OrderHistory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
