package scoring

import (
	"strings"
	"testing"

	"FlowState/internal/model"
)

func ip(v int) *int { return &v }

func TestExplain_AggressiveWithDissent(t *testing.T) {
	score := model.CompositeScore{Entries: map[model.Metric]model.ScoreEntry{
		model.MetricWALCL:      {Metric: model.MetricWALCL, Signal: 1, Reason: "Expanding +1.2%"},
		model.MetricRRP:        {Metric: model.MetricRRP, Signal: 1, Reason: "Draining -6.0%"},
		model.MetricHYSpread:   {Metric: model.MetricHYSpread, Signal: 1, Reason: "Tightening -12.0%"},
		model.MetricDXY:        {Metric: model.MetricDXY, Signal: -1, Reason: "Strengthening +1.5%"},
		model.MetricStablecoin: {Metric: model.MetricStablecoin, Signal: 1, Reason: "Growing +4.0%"},
	}}
	snaps := model.Snapshots{
		Metrics: map[model.Metric]model.MetricSnapshot{
			model.MetricWALCL: {Delta: fp(0.012), Acceleration: fp(0.003)},
		},
		BTC: model.BTCSnapshot{AboveMA: true, Distance: fp(0.08)},
	}
	info := model.RegimeInfo{Regime: model.RegimeAggressive, DaysInRegime: ip(4)}

	expl := Explain(model.RegimeAggressive, score, snaps, info)
	if !strings.HasPrefix(expl.Headline, "AGGRESSIVE") {
		t.Errorf("unexpected headline %q", expl.Headline)
	}
	if !strings.Contains(expl.Headline, "Day 4 of regime") {
		t.Errorf("expected day count in headline, got %q", expl.Headline)
	}
	if !strings.Contains(expl.Body, "and accelerating") {
		t.Errorf("expected acceleration note in body, got %q", expl.Body)
	}
	if !strings.Contains(expl.Body, "However, watch: DXY") {
		t.Errorf("expected dissenting DXY signal surfaced, got %q", expl.Body)
	}
	if expl.Warnings != "" {
		t.Errorf("no warning expected at 8%% above MA, got %q", expl.Warnings)
	}
}

func TestExplain_BalancedPendingFlip(t *testing.T) {
	score := model.CompositeScore{Entries: map[model.Metric]model.ScoreEntry{
		model.MetricWALCL:    {Metric: model.MetricWALCL, Signal: -1, Reason: "Contracting -1.0%"},
		model.MetricHYSpread: {Metric: model.MetricHYSpread, Signal: -1, Reason: "Widening +12.0%"},
	}}
	info := model.RegimeInfo{
		Regime:         model.RegimeBalanced,
		ProposedRegime: model.RegimeDefensive,
		PendingFlip:    true,
		DaysUntilFlip:  ip(1),
		ScoreTrend:     model.ScoreDeteriorating,
	}

	expl := Explain(model.RegimeBalanced, score, model.Snapshots{}, info)
	if !strings.Contains(expl.Body, "Bearish: WALCL") {
		t.Errorf("expected bearish listing, got %q", expl.Body)
	}
	if !strings.Contains(expl.Body, "Overall trend deteriorating.") {
		t.Errorf("expected trend context, got %q", expl.Body)
	}
	if !strings.Contains(expl.Body, "Potential flip to DEFENSIVE in 1 day(s)") {
		t.Errorf("expected flip countdown, got %q", expl.Body)
	}
}

func TestExplain_StretchWarnings(t *testing.T) {
	tests := []struct {
		distance float64
		want     string
	}{
		{0.35, "scaling out"},
		{-0.35, "bounce zone"},
		{0.10, ""},
	}
	for _, tt := range tests {
		snaps := model.Snapshots{BTC: model.BTCSnapshot{Distance: fp(tt.distance)}}
		expl := Explain(model.RegimeBalanced, model.CompositeScore{}, snaps, model.RegimeInfo{})
		if tt.want == "" && expl.Warnings != "" {
			t.Errorf("distance %.2f: expected no warning, got %q", tt.distance, expl.Warnings)
		}
		if tt.want != "" && !strings.Contains(expl.Warnings, tt.want) {
			t.Errorf("distance %.2f: expected warning containing %q, got %q", tt.distance, tt.want, expl.Warnings)
		}
	}
}
