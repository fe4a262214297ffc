package scoring

import (
	"fmt"

	"FlowState/internal/config"
	"FlowState/internal/model"
)

// reasonSet holds the per-metric verbs used in reason strings. Presentation
// only; the scoring decision comes entirely from the config table.
type reasonSet struct {
	bullish string
	bearish string
	neutral string
}

var reasons = map[model.Metric]reasonSet{
	model.MetricWALCL:      {bullish: "Expanding", bearish: "Contracting", neutral: "Flat"},
	model.MetricRRP:        {bullish: "Draining", bearish: "Building", neutral: "Stable"},
	model.MetricHYSpread:   {bullish: "Tightening", bearish: "Widening", neutral: "Stable"},
	model.MetricDXY:        {bullish: "Weakening", bearish: "Strengthening", neutral: "Stable"},
	model.MetricStablecoin: {bullish: "Growing", bearish: "Shrinking", neutral: "Flat"},
}

// Calculate scores every indicator against the metric table and sums the
// weighted signals. Indicators without a computable delta contribute zero
// with a "No data" reason; the composite always exists.
func Calculate(snaps model.Snapshots, cfg *config.Config) model.CompositeScore {
	score := model.CompositeScore{
		Entries:     make(map[model.Metric]model.ScoreEntry, len(model.ScoredMetrics)),
		BTCAboveMA:  snaps.BTC.AboveMA,
		BTCDistance: snaps.BTC.Distance,
	}

	for _, m := range model.ScoredMetrics {
		spec, ok := cfg.Spec(m)
		if !ok {
			continue
		}
		signal, reason := scoreMetric(m, snaps.Metrics[m], spec)
		entry := model.ScoreEntry{
			Metric:   m,
			Signal:   signal,
			Weight:   spec.Weight,
			Weighted: float64(signal) * spec.Weight,
			Reason:   reason,
		}
		score.Entries[m] = entry
		score.Total += entry.Weighted
		score.MaxPossible += spec.Weight
	}
	score.MinPossible = -score.MaxPossible

	return score
}

// scoreMetric maps one snapshot's delta to a signal in {-1, 0, +1} using
// the directionally-aware thresholds from the spec.
func scoreMetric(m model.Metric, snap model.MetricSnapshot, spec config.MetricSpec) (int, string) {
	if snap.Delta == nil {
		return 0, "No data"
	}
	delta := *snap.Delta

	var signal int
	if spec.Inverted {
		switch {
		case delta <= spec.Bullish:
			signal = 1
		case delta >= spec.Bearish:
			signal = -1
		}
	} else {
		switch {
		case delta >= spec.Bullish:
			signal = 1
		case delta <= spec.Bearish:
			signal = -1
		}
	}

	return signal, buildReason(m, snap, spec, signal, delta)
}

func buildReason(m model.Metric, snap model.MetricSnapshot, spec config.MetricSpec, signal int, delta float64) string {
	verbs := reasons[m]

	var reason string
	switch signal {
	case 1:
		reason = fmt.Sprintf("%s %+.1f%%", verbs.bullish, delta*100)
	case -1:
		reason = fmt.Sprintf("%s %+.1f%%", verbs.bearish, delta*100)
	default:
		reason = fmt.Sprintf("%s (%+.1f%%)", verbs.neutral, delta*100)
	}

	if signal != 0 && accelerationConfirms(snap, spec, signal) {
		reason += " (accelerating)"
	}
	reason += levelSuffix(m, snap.Current)

	return reason
}

// accelerationConfirms reports whether the second derivative points the
// same way as the signal, accounting for inversion.
func accelerationConfirms(snap model.MetricSnapshot, spec config.MetricSpec, signal int) bool {
	if snap.Acceleration == nil {
		return false
	}
	a := *snap.Acceleration * float64(signal)
	if spec.Inverted {
		return a < 0
	}
	return a > 0
}

// levelSuffix appends the current level where it helps the reader judge
// the delta (spread in bps, index level, supply in billions).
func levelSuffix(m model.Metric, current *float64) string {
	if current == nil {
		return ""
	}
	switch m {
	case model.MetricHYSpread:
		return fmt.Sprintf(" (%.0fbps)", *current*100)
	case model.MetricDXY:
		return fmt.Sprintf(" (%.1f)", *current)
	case model.MetricStablecoin:
		return fmt.Sprintf(" ($%.0fB)", *current/1e9)
	}
	return ""
}
