package internal

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	submitted   prometheus.Counter
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewMetrics registers the relay collectors on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orderrelay",
			Name:      "orders_submitted_total",
			Help:      "Orders stored by /process-json.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderrelay",
			Name:      "status_transitions_total",
			Help:      "Orders moved into a printing status.",
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderrelay",
			Name:      "operation_failures_total",
			Help:      "Service operations that ended with a storage error.",
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.submitted, m.transitions, m.failures)
	}
	return m
}

func (m *Metrics) orderSubmitted() {
	m.submitted.Inc()
	m.transitions.WithLabelValues("new").Inc()
}

func (m *Metrics) moved(status string, n int) {
	if n > 0 {
		m.transitions.WithLabelValues(status).Add(float64(n))
	}
}

func (m *Metrics) failed(operation string) {
	m.failures.WithLabelValues(operation).Inc()
}
