package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "profileform"

// Submission outcomes recorded by the submissions counter.
const (
	outcomeAccepted  = "accepted"
	outcomeRejected  = "rejected"
	outcomeMalformed = "malformed"
	outcomeFailed    = "failed"
)

// Transports recorded by the submissions counter.
const (
	transportForm = "form"
	transportJSON = "json"
)

type metrics struct {
	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	renders     *prometheus.CounterVec
}

func newMetrics(registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Total number of form submissions by transport and outcome",
		}, []string{"transport", "outcome"}),

		fieldErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "field_errors_total",
			Help:      "Total number of field errors reported on rejected submissions",
		}, []string{"field"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Total number of rendered form pages by renderer",
		}, []string{"renderer"}),
	}
}

func (m *metrics) submission(transport, outcome string) {
	m.submissions.WithLabelValues(transport, outcome).Inc()
}

func (m *metrics) rejected(transport string, errors map[string]string) {
	m.submission(transport, outcomeRejected)
	for field := range errors {
		m.fieldErrors.WithLabelValues(field).Inc()
	}
}
