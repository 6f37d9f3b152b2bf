package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopperMetrics records state-container and catalog activity.
type ShopperMetrics struct {
	mutations     *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchFailures prometheus.Counter
	proxyRequests *prometheus.CounterVec
}

// NewShopperMetrics registers the shopper metrics on the provided registerer.
func NewShopperMetrics(reg prometheus.Registerer) *ShopperMetrics {
	if reg == nil {
		return &ShopperMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopper_state_mutations_total",
		Help: "State container mutations by container and operation.",
	}, []string{"container", "op"})
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of full-catalog fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	fetchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_fetch_failures_total",
		Help: "Failed full-catalog fetches.",
	})
	proxyRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_proxy_requests_total",
		Help: "Requests forwarded to the external storefront backend.",
	}, []string{"method"})
	reg.MustRegister(mutations, fetchDuration, fetchFailures, proxyRequests)
	return &ShopperMetrics{
		mutations:     mutations,
		fetchDuration: fetchDuration,
		fetchFailures: fetchFailures,
		proxyRequests: proxyRequests,
	}
}

// IncMutation counts one mutation on the named container.
func (m *ShopperMetrics) IncMutation(container, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(container), normalizeLabel(op)).Inc()
}

// ObserveFetch records a catalog fetch with its outcome.
func (m *ShopperMetrics) ObserveFetch(duration time.Duration, err error) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if m.fetchFailures != nil {
			m.fetchFailures.Inc()
		}
	}
	m.fetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncProxyRequest counts one forwarded backend request.
func (m *ShopperMetrics) IncProxyRequest(method string) {
	if m == nil || m.proxyRequests == nil {
		return
	}
	m.proxyRequests.WithLabelValues(normalizeLabel(method)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
