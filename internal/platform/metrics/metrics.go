package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation pipeline. All methods are
// nil-safe so callers can run without metrics wired (tests, tools).
type Metrics struct {
	// Validation outcomes by result ("approved"/"manual_review") and the first
	// failed check ("none" when approved).
	ValidationOutcome *prometheus.CounterVec

	// Overall validation latency including the approval store write.
	ValidateLatency prometheus.Histogram

	// Approval store operation latency by operation name.
	StoreLatency *prometheus.HistogramVec

	// Event publish results by sink and result ("ok"/"error"/"timeout"/"dropped").
	EventPublish *prometheus.CounterVec
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		ValidationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoicegate_validation_outcomes_total",
			Help: "Total validation outcomes by result and first failed check",
		}, []string{"result", "failed_check"}),

		ValidateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoicegate_validate_duration_seconds",
			Help:    "Duration of full validation including the approval record write",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoicegate_approval_store_duration_seconds",
			Help:    "Duration of approval store operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"op"}),

		EventPublish: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoicegate_event_publish_total",
			Help: "Total event publish attempts by sink and result",
		}, []string{"sink", "result"}),
	}
}

// IncrementOutcome records a validation outcome.
func (m *Metrics) IncrementOutcome(result, failedCheck string) {
	if m != nil {
		m.ValidationOutcome.WithLabelValues(result, failedCheck).Inc()
	}
}

// ObserveValidateLatency records the total validation duration.
func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}

// ObserveStoreLatency records the duration of a store operation.
func (m *Metrics) ObserveStoreLatency(op string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}

// IncrementPublish records an event publish attempt.
func (m *Metrics) IncrementPublish(sink, result string) {
	if m != nil {
		m.EventPublish.WithLabelValues(sink, result).Inc()
	}
}
