package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments backend round trips
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors on reg. A nil reg creates
// collectors that are never exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eduquest",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests by resource, method and status code.",
		}, []string{"resource", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eduquest",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend round trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
	}
}

func (m *Metrics) observe(resource, method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, method, code).Inc()
	m.duration.WithLabelValues(resource, method).Observe(seconds)
}
