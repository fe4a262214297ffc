package scoring

import (
	"math"
	"testing"

	"FlowState/internal/config"
	"FlowState/internal/model"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("testdata/does-not-exist.yaml")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	return cfg
}

func fp(v float64) *float64 { return &v }

func snapshotsWith(deltas map[model.Metric]float64) model.Snapshots {
	snaps := model.Snapshots{Metrics: make(map[model.Metric]model.MetricSnapshot)}
	for m, d := range deltas {
		snaps.Metrics[m] = model.MetricSnapshot{Delta: fp(d), Trend: model.TrendFlat}
	}
	return snaps
}

func TestCalculate_AllBullish(t *testing.T) {
	cfg := defaultConfig(t)
	snaps := snapshotsWith(map[model.Metric]float64{
		model.MetricWALCL:      0.012,
		model.MetricRRP:        -0.06,
		model.MetricHYSpread:   -0.12,
		model.MetricDXY:        -0.012,
		model.MetricStablecoin: 0.04,
	})

	score := Calculate(snaps, cfg)
	if math.Abs(score.Total-6.5) > 1e-9 {
		t.Errorf("expected total 6.5, got %.2f", score.Total)
	}
	if math.Abs(score.MaxPossible-6.5) > 1e-9 {
		t.Errorf("expected max 6.5, got %.2f", score.MaxPossible)
	}
	for _, m := range model.ScoredMetrics {
		if score.Entries[m].Signal != 1 {
			t.Errorf("%s: expected signal +1, got %+d", m, score.Entries[m].Signal)
		}
	}
}

func TestCalculate_AllBearish(t *testing.T) {
	cfg := defaultConfig(t)
	snaps := snapshotsWith(map[model.Metric]float64{
		model.MetricWALCL:      -0.012,
		model.MetricRRP:        0.06,
		model.MetricHYSpread:   0.12,
		model.MetricDXY:        0.012,
		model.MetricStablecoin: -0.04,
	})

	score := Calculate(snaps, cfg)
	if math.Abs(score.Total+6.5) > 1e-9 {
		t.Errorf("expected total -6.5, got %.2f", score.Total)
	}
	if math.Abs(score.MinPossible+6.5) > 1e-9 {
		t.Errorf("expected min -6.5, got %.2f", score.MinPossible)
	}
}

func TestCalculate_MissingSeriesScoresNeutral(t *testing.T) {
	cfg := defaultConfig(t)
	snaps := model.Snapshots{Metrics: make(map[model.Metric]model.MetricSnapshot)}

	score := Calculate(snaps, cfg)
	if score.Total != 0 {
		t.Errorf("expected total 0 on no data, got %.2f", score.Total)
	}
	for _, m := range model.ScoredMetrics {
		entry := score.Entries[m]
		if entry.Signal != 0 {
			t.Errorf("%s: expected neutral signal, got %+d", m, entry.Signal)
		}
		if entry.Reason != "No data" {
			t.Errorf("%s: expected 'No data' reason, got %q", m, entry.Reason)
		}
	}
}

func TestCalculate_InvertedThresholds(t *testing.T) {
	cfg := defaultConfig(t)
	tests := []struct {
		name   string
		delta  float64
		signal int
	}{
		{"drain is bullish", -0.06, 1},
		{"build is bearish", 0.06, -1},
		{"inside band is neutral", 0.01, 0},
		{"exactly at bullish threshold", -0.05, 1},
		{"exactly at bearish threshold", 0.05, -1},
	}
	for _, tt := range tests {
		snaps := snapshotsWith(map[model.Metric]float64{model.MetricRRP: tt.delta})
		score := Calculate(snaps, cfg)
		if got := score.Entries[model.MetricRRP].Signal; got != tt.signal {
			t.Errorf("%s: delta %.3f expected signal %+d, got %+d", tt.name, tt.delta, tt.signal, got)
		}
	}
}

func TestCalculate_ReasonStrings(t *testing.T) {
	cfg := defaultConfig(t)
	snaps := model.Snapshots{Metrics: map[model.Metric]model.MetricSnapshot{
		model.MetricWALCL:      {Delta: fp(0.012)},
		model.MetricRRP:        {Delta: fp(-0.06), Acceleration: fp(-0.02)},
		model.MetricHYSpread:   {Delta: fp(-0.12), Current: fp(4.80)},
		model.MetricDXY:        {Delta: fp(0.001), Current: fp(102.3)},
		model.MetricStablecoin: {Delta: fp(0.04), Current: fp(250e9)},
	}}

	score := Calculate(snaps, cfg)
	want := map[model.Metric]string{
		model.MetricWALCL:      "Expanding +1.2%",
		model.MetricRRP:        "Draining -6.0% (accelerating)",
		model.MetricHYSpread:   "Tightening -12.0% (480bps)",
		model.MetricDXY:        "Stable (+0.1%) (102.3)",
		model.MetricStablecoin: "Growing +4.0% ($250B)",
	}
	for m, expected := range want {
		if got := score.Entries[m].Reason; got != expected {
			t.Errorf("%s: expected %q, got %q", m, expected, got)
		}
	}
}

func TestCalculate_AccelerationAgainstSignalNotFlagged(t *testing.T) {
	cfg := defaultConfig(t)
	// RRP draining but the drain is decelerating: no "(accelerating)" tag.
	snaps := model.Snapshots{Metrics: map[model.Metric]model.MetricSnapshot{
		model.MetricRRP: {Delta: fp(-0.06), Acceleration: fp(0.02)},
	}}
	score := Calculate(snaps, cfg)
	if got := score.Entries[model.MetricRRP].Reason; got != "Draining -6.0%" {
		t.Errorf("expected no accelerating tag, got %q", got)
	}
}

func TestCalculate_GatePassthrough(t *testing.T) {
	cfg := defaultConfig(t)
	snaps := model.Snapshots{
		Metrics: make(map[model.Metric]model.MetricSnapshot),
		BTC:     model.BTCSnapshot{AboveMA: true, Distance: fp(0.12)},
	}
	score := Calculate(snaps, cfg)
	if !score.BTCAboveMA {
		t.Error("expected gate flag carried onto the score")
	}
	if score.BTCDistance == nil || *score.BTCDistance != 0.12 {
		t.Error("expected BTC distance carried onto the score")
	}
}
