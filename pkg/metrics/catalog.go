package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records which product source answered and how often the chain fell back.
type CatalogMetrics struct {
	resolved  *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_resolved_total",
		Help: "Catalog queries answered, by source.",
	}, []string{"operation", "source"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_source_failures_total",
		Help: "Catalog source failures that triggered a fallback, by source and kind.",
	}, []string{"source", "kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Time to resolve a catalog query across the whole source chain.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(resolved, fallbacks, duration)
	return &CatalogMetrics{
		resolved:  resolved,
		fallbacks: fallbacks,
		duration:  duration,
	}
}

// IncResolved counts a query answered by source.
func (c *CatalogMetrics) IncResolved(operation, source string) {
	if c == nil || c.resolved == nil {
		return
	}
	c.resolved.WithLabelValues(normalizeLabel(operation), normalizeLabel(source)).Inc()
}

// IncFallback counts a source failure of the given kind.
func (c *CatalogMetrics) IncFallback(source, kind string) {
	if c == nil || c.fallbacks == nil {
		return
	}
	c.fallbacks.WithLabelValues(normalizeLabel(source), normalizeLabel(kind)).Inc()
}

// ObserveDuration records how long a resolution took.
func (c *CatalogMetrics) ObserveDuration(operation string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
