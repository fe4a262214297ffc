package calculator

import (
	"testing"
	"time"

	"FlowState/internal/model"
)

func dailySeries(days int, value func(i int) float64) []model.Point {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.Point, 0, days)
	for i := 0; i < days; i++ {
		pts = append(pts, model.Point{Date: start.AddDate(0, 0, i), Value: value(i)})
	}
	return pts
}

func TestTrend_Rising(t *testing.T) {
	pts := dailySeries(20, func(i int) float64 { return 100 + float64(i) })
	if got := Trend(pts, 14); got != model.TrendUp {
		t.Errorf("expected up, got %s", got)
	}
}

func TestTrend_Falling(t *testing.T) {
	pts := dailySeries(20, func(i int) float64 { return 100 - float64(i) })
	if got := Trend(pts, 14); got != model.TrendDown {
		t.Errorf("expected down, got %s", got)
	}
}

func TestTrend_Flat(t *testing.T) {
	pts := dailySeries(20, func(i int) float64 { return 100 })
	if got := Trend(pts, 14); got != model.TrendFlat {
		t.Errorf("expected flat, got %s", got)
	}
}

func TestTrend_SmallDriftStaysFlat(t *testing.T) {
	// Slope well under the deadband relative to the level.
	pts := dailySeries(20, func(i int) float64 { return 1000 + 0.01*float64(i) })
	if got := Trend(pts, 14); got != model.TrendFlat {
		t.Errorf("expected flat for negligible drift, got %s", got)
	}
}

func TestTrend_InsufficientData(t *testing.T) {
	pts := dailySeries(5, func(i int) float64 { return 100 + float64(i) })
	if got := Trend(pts, 14); got != model.TrendUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
	if got := Trend(nil, 14); got != model.TrendUnknown {
		t.Errorf("expected unknown for empty series, got %s", got)
	}
}
