package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowState/internal/model"
	"FlowState/internal/regime"
	"FlowState/internal/scheduler"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func sampleResult() *scheduler.CycleResult {
	start := time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &scheduler.CycleResult{
		Snapshots: model.Snapshots{
			Metrics: map[model.Metric]model.MetricSnapshot{
				model.MetricWALCL: {Current: fp(7.65e12), Delta: fp(0.012), Trend: model.TrendUp, LatestDate: latest},
				model.MetricRRP:   {Current: fp(4.5e11), Delta: fp(-0.06), Trend: model.TrendDown, LatestDate: latest},
			},
			BTC: model.BTCSnapshot{CurrentPrice: fp(64000), MA200: fp(58000), AboveMA: true, Distance: fp(0.103)},
		},
		Score: model.CompositeScore{
			Total:       3.0,
			MaxPossible: 6.5,
			MinPossible: -6.5,
			BTCAboveMA:  true,
			Entries: map[model.Metric]model.ScoreEntry{
				model.MetricWALCL: {Signal: 1, Weight: 1.5, Weighted: 1.5, Reason: "Expanding +1.2%"},
				model.MetricRRP:   {Signal: 1, Weight: 1.5, Weighted: 1.5, Reason: "Draining -6.0%"},
			},
		},
		Outcome: regime.Outcome{
			Regime: model.RegimeBalanced,
			Info: model.RegimeInfo{
				Regime:         model.RegimeBalanced,
				ProposedRegime: model.RegimeAggressive,
				Score:          3.0,
				PendingFlip:    true,
				DaysUntilFlip:  ip(1),
				DaysInRegime:   ip(4),
			},
			State: &model.RegimeState{
				CurrentRegime:   model.RegimeBalanced,
				RegimeStartDate: &start,
			},
		},
		Explanation: model.Explanation{Headline: "BALANCED (Day 4 of regime)", Posture: "Neutral posture."},
		Timestamp:   time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestBuildDashboard(t *testing.T) {
	view := buildDashboard(sampleResult(), 4.0, -4.0)

	assert.Equal(t, model.RegimeBalanced, view.Regime)
	assert.Equal(t, 3.0, view.Score)
	assert.Equal(t, 4.0, view.Thresholds.Aggressive)
	assert.Equal(t, "2024-06-01T12:30:00Z", view.Timestamp)
	require.NotNil(t, view.RegimeStart)
	assert.Equal(t, "2024-05-28T00:00:00Z", *view.RegimeStart)

	walcl := view.Indicators[model.MetricWALCL]
	assert.Equal(t, 1, walcl.Signal)
	assert.Equal(t, "up", walcl.Direction)
	assert.Equal(t, "Expanding +1.2%", walcl.Reason)
	require.NotNil(t, walcl.LatestDate)
	assert.Equal(t, "2024-06-01", *walcl.LatestDate)

	// Metrics without data still appear with null fields.
	dxy, ok := view.Indicators[model.MetricDXY]
	require.True(t, ok)
	assert.Nil(t, dxy.Current)
	assert.Nil(t, dxy.LatestDate)
	assert.Equal(t, 0, dxy.Signal)

	assert.True(t, view.BTC.Above200DMA)
	require.NotNil(t, view.BTC.MA200)
	assert.Equal(t, 58000.0, *view.BTC.MA200)
}

func TestBuildDashboard_SerializesCleanly(t *testing.T) {
	view := buildDashboard(sampleResult(), 4.0, -4.0)

	data, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "regime")
	assert.Contains(t, decoded, "regime_info")
	assert.Contains(t, decoded, "indicators")
	assert.Contains(t, decoded, "thresholds")

	info := decoded["regime_info"].(map[string]any)
	assert.Equal(t, true, info["pending_flip"])
	assert.Equal(t, float64(1), info["days_until_flip"])
}
