package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/moda-storefront/api/controllers"
	"github.com/angelmondragon/moda-storefront/api/middleware"
	"github.com/angelmondragon/moda-storefront/internal/cart"
	"github.com/angelmondragon/moda-storefront/internal/checkout"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	readiness map[string]controllers.Pinger,
	productCatalog controllers.ProductCatalog,
	cartService cart.Service,
	checkoutService checkout.Service,
	orderHistory controllers.OrderHistory,
	idempotencyStore kvstore.Store,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Shopper(logg, cfg.Orders.DefaultUserID))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productCatalog, logg))
			r.Get("/{productId}", controllers.ProductsShow(productCatalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Get("/events", controllers.CartEvents(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{variantId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{variantId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutQuote(checkoutService, logg))
			r.With(middleware.Idempotency(idempotencyStore, middleware.DefaultIdempotencyTTL, logg)).
				Post("/", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(orderHistory, logg))
			r.Get("/{orderId}", controllers.OrdersShow(orderHistory, logg))
		})
	})

	return r
}
