package compiler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the compiler's collectors. A nil *Metrics records nothing.
type Metrics struct {
	compileTotal       *prometheus.CounterVec
	compileDuration    *prometheus.HistogramVec
	discardedOperators prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		compileTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plangen_compile_total",
				Help: "Number of compilations by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		compileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plangen_compile_duration_seconds",
				Help:    "Time taken to compile a plan.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		discardedOperators: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "plangen_relaxed_discarded_operators_total",
				Help: "Total number of operators discarded by relaxed compilation.",
			},
		),
	}
	reg.MustRegister(m.compileTotal, m.compileDuration, m.discardedOperators)
	return m
}

func (m *Metrics) observe(mode Mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.compileTotal.WithLabelValues(string(mode), outcome).Inc()
	m.compileDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

func (m *Metrics) discarded(n int) {
	if m == nil || n == 0 {
		return
	}
	m.discardedOperators.Add(float64(n))
}
