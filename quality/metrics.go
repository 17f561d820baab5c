package quality

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts engine activity. A nil *Metrics is valid and records
// nothing, so wiring metrics is optional everywhere.
type Metrics struct {
	evaluations   *prometheus.CounterVec
	regenerations prometheus.Counter
	parseFailures prometheus.Counter
}

// NewMetrics creates and registers the engine's counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muse",
			Subsystem: "quality",
			Name:      "evaluations_total",
			Help:      "Content evaluations graded, by brand and verdict.",
		}, []string{"brand", "verdict"}),
		regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "muse",
			Subsystem: "quality",
			Name:      "regenerations_total",
			Help:      "Regeneration attempts issued by the refine loop.",
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "muse",
			Subsystem: "quality",
			Name:      "judge_parse_failures_total",
			Help:      "Oracle responses that degraded to neutral scores.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.evaluations, m.regenerations, m.parseFailures)
	}
	return m
}

func (m *Metrics) evaluation(brand string, passed bool) {
	if m == nil {
		return
	}
	verdict := "failed"
	if passed {
		verdict = "passed"
	}
	m.evaluations.WithLabelValues(brand, verdict).Inc()
}

func (m *Metrics) regeneration() {
	if m == nil {
		return
	}
	m.regenerations.Inc()
}

func (m *Metrics) judgeParseFailure() {
	if m == nil {
		return
	}
	m.parseFailures.Inc()
}
