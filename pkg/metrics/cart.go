package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts cart mutations and best-effort persistence failures.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations, by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_storage_failures_total",
		Help: "Cart storage reads or writes that failed and were swallowed.",
	}, []string{"direction"})
	reg.MustRegister(mutations, persistFailures)
	return &CartMetrics{mutations: mutations, persistFailures: persistFailures}
}

// IncMutation counts one cart mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncStorageFailure counts a swallowed storage failure ("read" or "write").
func (c *CartMetrics) IncStorageFailure(direction string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(direction)).Inc()
}
