package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// carries its own registry so tests can construct handlers without hitting
// duplicate-registration panics on the default registry.
type Metrics struct {
	Registry *prometheus.Registry

	ContractsCreated   prometheus.Counter
	SignaturesCaptured prometheus.Counter
	UploadFailures     prometheus.Counter
	StateTransitions   *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		ContractsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "plansign_contracts_created_total",
			Help: "Total number of contracts created.",
		}),
		SignaturesCaptured: factory.NewCounter(prometheus.CounterOpts{
			Name: "plansign_signatures_captured_total",
			Help: "Total number of signature audit records written.",
		}),
		UploadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "plansign_signature_upload_failures_total",
			Help: "Total number of failed signature artifact uploads.",
		}),
		StateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plansign_workflow_transitions_total",
			Help: "Workflow transitions by destination state.",
		}, []string{"to_state"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plansign_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveTransition records a workflow move into state.
func (m *Metrics) ObserveTransition(toState string) {
	m.StateTransitions.WithLabelValues(toState).Inc()
}
