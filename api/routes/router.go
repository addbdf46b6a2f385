package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marlowpress/storefront-backend/api/controllers"
	"github.com/marlowpress/storefront-backend/api/middleware"
	"github.com/marlowpress/storefront-backend/internal/orders"
	"github.com/marlowpress/storefront-backend/internal/payments"
	"github.com/marlowpress/storefront-backend/internal/shipping"
	"github.com/marlowpress/storefront-backend/pkg/db"
	"github.com/marlowpress/storefront-backend/pkg/logger"
	"github.com/marlowpress/storefront-backend/pkg/metrics"
)

func NewRouter(
	logg *logger.Logger,
	dbP db.Pinger,
	shippingService *shipping.Service,
	paymentsProvider payments.Provider,
	ordersService orders.Service,
	checkoutMetrics *metrics.CheckoutMetrics,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	checkoutController := controllers.NewCheckoutController(shippingService, paymentsProvider, logg, checkoutMetrics)
	ordersController := controllers.NewOrdersController(ordersService, logg)

	r.Get("/healthz", controllers.Healthz(dbP, logg))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/metadata", checkoutController.Metadata)
		r.Post("/payment-intent", checkoutController.PaymentIntent)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", ordersController.Create)
		r.Post("/{orderID}/confirmation-email", ordersController.ConfirmationEmail)
	})

	return r
}
