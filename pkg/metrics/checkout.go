package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts checkout outcomes.
type CheckoutMetrics struct {
	ordersCreated     prometheus.Counter
	ordersReplayed    prometheus.Counter
	quotesUnavailable prometheus.Counter
	emailsFailed      prometheus.Counter
}

// NewCheckoutMetrics registers the checkout counters on the provided
// registerer. A nil registerer yields a no-op recorder for tests.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	m := &CheckoutMetrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Orders persisted for the first time.",
		}),
		ordersReplayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_orders_replayed_total",
			Help: "Order submissions that matched an existing order id.",
		}),
		quotesUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_quotes_unavailable_total",
			Help: "Fee quotes refused because no carrier serves the address.",
		}),
		emailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_confirmation_emails_failed_total",
			Help: "Confirmation emails that could not be delivered.",
		}),
	}
	reg.MustRegister(m.ordersCreated, m.ordersReplayed, m.quotesUnavailable, m.emailsFailed)
	return m
}

func (m *CheckoutMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *CheckoutMetrics) IncOrderReplayed() {
	if m == nil || m.ordersReplayed == nil {
		return
	}
	m.ordersReplayed.Inc()
}

func (m *CheckoutMetrics) IncQuoteUnavailable() {
	if m == nil || m.quotesUnavailable == nil {
		return
	}
	m.quotesUnavailable.Inc()
}

func (m *CheckoutMetrics) IncEmailFailed() {
	if m == nil || m.emailsFailed == nil {
		return
	}
	m.emailsFailed.Inc()
}
