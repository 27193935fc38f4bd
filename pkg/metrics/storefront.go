package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart mutations, checkout outcomes and catalog loads.
type StorefrontMetrics struct {
	cartMutations   *prometheus.CounterVec
	checkoutSuccess prometheus.Counter
	checkoutFailure prometheus.Counter
	catalogLoad     prometheus.Histogram
	catalogSize     prometheus.Gauge
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, labeled by operation.",
	}, []string{"op"})
	checkoutSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_success_total",
		Help: "Orders handed off to the chat link.",
	})
	checkoutFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_failure_total",
		Help: "Checkout submissions refused.",
	})
	catalogLoad := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Duration of catalog file loads in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Products currently served by the catalog.",
	})
	reg.MustRegister(cartMutations, checkoutSuccess, checkoutFailure, catalogLoad, catalogSize)
	return &StorefrontMetrics{
		cartMutations:   cartMutations,
		checkoutSuccess: checkoutSuccess,
		checkoutFailure: checkoutFailure,
		catalogLoad:     catalogLoad,
		catalogSize:     catalogSize,
	}
}

// IncCartMutation counts one cart mutation for the named operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckoutSuccess counts a completed handoff.
func (m *StorefrontMetrics) IncCheckoutSuccess() {
	if m == nil || m.checkoutSuccess == nil {
		return
	}
	m.checkoutSuccess.Inc()
}

// IncCheckoutFailure counts a refused submission.
func (m *StorefrontMetrics) IncCheckoutFailure() {
	if m == nil || m.checkoutFailure == nil {
		return
	}
	m.checkoutFailure.Inc()
}

// ObserveCatalogLoad records the duration and resulting size of a catalog load.
func (m *StorefrontMetrics) ObserveCatalogLoad(duration time.Duration, products int) {
	if m == nil || m.catalogLoad == nil {
		return
	}
	m.catalogLoad.Observe(duration.Seconds())
	m.catalogSize.Set(float64(products))
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
