package controllers

import (
	"net/http"

	"github.com/angelmondragon/moda-storefront/api/middleware"
	"github.com/angelmondragon/moda-storefront/api/responses"
	"github.com/angelmondragon/moda-storefront/api/validators"
	"github.com/angelmondragon/moda-storefront/internal/checkout"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

// CheckoutQuote returns the cart with subtotal, shipping and total.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quote, err := svc.Quote(r.Context(), middleware.ProfileFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit places an order from the profile's cart. Form validation
// happens in the checkout service.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input checkout.Input
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.PlaceOrder(ctx, middleware.ProfileFromContext(ctx), middleware.UserIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
