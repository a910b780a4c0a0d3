package graphql

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contadores del gateway. Un *Metrics nil no registra nada.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics crea y registra las métricas en reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Subsystem: "graphql",
			Name:      "requests_total",
			Help:      "Operaciones GraphQL ejecutadas, por operación y resultado.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inventario",
			Subsystem: "graphql",
			Name:      "request_duration_seconds",
			Help:      "Duración de las operaciones GraphQL.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
