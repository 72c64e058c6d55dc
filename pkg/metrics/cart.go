package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations, persistence health and live sessions.
type CartMetrics struct {
	operations     *prometheus.CounterVec
	persistFailure *prometheus.CounterVec
	persistLatency *prometheus.HistogramVec
	hydrations     *prometheus.CounterVec
	sessions       prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer. A nil
// registerer yields a collector whose methods are no-ops.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	persistFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persistence_failures_total",
		Help: "Cart state loads or saves that failed or returned unreadable data.",
	}, []string{"op"})
	persistLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_persistence_duration_seconds",
		Help:    "Latency of cart state loads and saves.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	hydrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_hydrations_total",
		Help: "Cart hydrations by outcome (restored, empty).",
	}, []string{"result"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_active_sessions",
		Help: "Cart stores currently held in memory.",
	})
	reg.MustRegister(operations, persistFailure, persistLatency, hydrations, sessions)
	return &CartMetrics{
		operations:     operations,
		persistFailure: persistFailure,
		persistLatency: persistLatency,
		hydrations:     hydrations,
		sessions:       sessions,
	}
}

// IncOperation counts an applied cart mutation.
func (c *CartMetrics) IncOperation(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistenceFailure counts a failed load or save.
func (c *CartMetrics) IncPersistenceFailure(op string) {
	if c == nil || c.persistFailure == nil {
		return
	}
	c.persistFailure.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObservePersistence records how long a load or save took.
func (c *CartMetrics) ObservePersistence(op string, duration time.Duration) {
	if c == nil || c.persistLatency == nil {
		return
	}
	c.persistLatency.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncHydration counts a completed hydration.
func (c *CartMetrics) IncHydration(restored bool) {
	if c == nil || c.hydrations == nil {
		return
	}
	result := "empty"
	if restored {
		result = "restored"
	}
	c.hydrations.WithLabelValues(result).Inc()
}

// SetActiveSessions publishes the number of in-memory cart stores.
func (c *CartMetrics) SetActiveSessions(n int) {
	if c == nil || c.sessions == nil {
		return
	}
	c.sessions.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
