package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"FlowState/internal/model"
)

// Prometheus collectors for the evaluation pipeline. Registered once on
// package init via promauto and served from the /metrics endpoint.
var (
	Evaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowstate_evaluations_total",
		Help: "Number of completed evaluation cycles.",
	})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowstate_fetch_errors_total",
		Help: "Upstream fetch failures by data source.",
	}, []string{"source"})

	CompositeScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flowstate_composite_score",
		Help: "Latest weighted composite liquidity score.",
	})

	RegimeGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "flowstate_regime",
		Help: "Current regime, 1 for the active regime and 0 otherwise.",
	}, []string{"regime"})

	RegimeFlips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowstate_regime_flips_total",
		Help: "Number of confirmed regime transitions.",
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowstate_cache_requests_total",
		Help: "Series cache lookups by result.",
	}, []string{"result"})
)

// SetRegime flips the regime gauge so exactly one label carries a 1.
func SetRegime(active model.Regime) {
	for _, r := range []model.Regime{model.RegimeAggressive, model.RegimeBalanced, model.RegimeDefensive} {
		v := 0.0
		if r == active {
			v = 1.0
		}
		RegimeGauge.WithLabelValues(r.String()).Set(v)
	}
}
