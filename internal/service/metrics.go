package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the document pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	generated          *prometheus.CounterVec
	conversionDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_documents_generated_total",
				Help: "Total number of member documents generated, by kind and status.",
			},
			[]string{"kind", "status"},
		),
		conversionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "member_document_conversion_duration_seconds",
				Help:    "Duration of PDF conversions in seconds.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
	}

	for _, c := range []prometheus.Collector{m.generated, m.conversionDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeGeneration(kind, status string) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) observeConversion(d time.Duration) {
	if m == nil {
		return
	}
	m.conversionDuration.Observe(d.Seconds())
}
