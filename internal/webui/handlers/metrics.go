package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters exposed on /metrics.
type Metrics struct {
	Verdicts     *prometheus.CounterVec
	CacheHits    prometheus.Counter
	GuardBlocks  prometheus.Counter
	InputErrors  prometheus.Counter
	QuestionsAsk prometheus.Counter
}

// NewMetrics creates and registers the service metrics on the given
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "focusd_analyze_verdicts_total",
			Help: "Analysis verdicts by outcome.",
		}, []string{"verdict"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "focusd_cache_hits_total",
			Help: "Analysis results served from the result cache.",
		}),
		GuardBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "focusd_search_query_blocks_total",
			Help: "Navigations blocked by the short/vague search query guard.",
		}),
		InputErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "focusd_input_errors_total",
			Help: "Requests rejected for missing or invalid fields.",
		}),
		QuestionsAsk: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "focusd_questions_generated_total",
			Help: "Contextualization questions generated.",
		}),
	}
	reg.MustRegister(m.Verdicts, m.CacheHits, m.GuardBlocks, m.InputErrors, m.QuestionsAsk)
	return m
}

// RecordVerdict increments the verdict counter for a result.
func (m *Metrics) RecordVerdict(productive bool) {
	if m == nil {
		return
	}
	if productive {
		m.Verdicts.WithLabelValues("allow").Inc()
	} else {
		m.Verdicts.WithLabelValues("block").Inc()
	}
}
