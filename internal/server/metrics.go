package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks build and validation traffic.
// Each server owns its registry so several servers can coexist in one process.
type Metrics struct {
	DocumentsBuilt     *prometheus.CounterVec
	BuildFailures      *prometheus.CounterVec
	Validations        *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

// NewMetrics registers all server metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ubl_documents_built_total",
			Help: "Total number of documents built",
		}, []string{"kind", "extension"}),
		BuildFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ubl_build_failures_total",
			Help: "Total number of rejected build requests",
		}, []string{"reason"}),
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ubl_validations_total",
			Help: "Total number of validations by outcome",
		}, []string{"kind", "outcome"}),
		ValidationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ubl_validation_duration_seconds",
			Help:    "Duration of validation requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"schematron"}),
	}
}

// IncrementBuilt records a successful build
func (m *Metrics) IncrementBuilt(kind, extension string) {
	if extension == "" {
		extension = "none"
	}
	m.DocumentsBuilt.WithLabelValues(kind, extension).Inc()
}

// IncrementBuildFailure records a rejected build
func (m *Metrics) IncrementBuildFailure(reason string) {
	m.BuildFailures.WithLabelValues(reason).Inc()
}

// ObserveValidation records one validation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveValidation(kind, outcome string, schematron bool, start time.Time) {
	m.Validations.WithLabelValues(kind, outcome).Inc()
	label := "false"
	if schematron {
		label = "true"
	}
	m.ValidationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
}
