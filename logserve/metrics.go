package logserve

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes besides the report.LogSource values.
const (
	resultNotFound   = "not_found"
	resultError      = "error"
	resultBadRequest = "bad_request"
)

// Metrics counts log requests by outcome.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers the log request counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "javatest_report",
			Name:      "log_requests_total",
			Help:      "Captured log requests by outcome (archive, legacy, not_found, error, bad_request).",
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests)
	return m
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(result).Inc()
}
