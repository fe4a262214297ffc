package scoring

import (
	"FlowState/internal/calculator"
	"FlowState/internal/config"
	"FlowState/internal/model"
)

// walclTrendWindow uses fewer points than the daily series because the Fed
// balance sheet publishes weekly; 8 points spans roughly two months.
const walclTrendWindow = 8

// BuildSnapshots derives per-indicator state from the raw dataset. Missing
// or short series produce snapshots with nil fields, never an error.
func BuildSnapshots(data *model.Dataset, cfg *config.Config) model.Snapshots {
	snaps := model.Snapshots{Metrics: make(map[model.Metric]model.MetricSnapshot, len(model.ScoredMetrics))}

	for _, m := range model.ScoredMetrics {
		spec, ok := cfg.Spec(m)
		if !ok {
			snaps.Metrics[m] = model.MetricSnapshot{Trend: model.TrendUnknown}
			continue
		}
		snaps.Metrics[m] = buildMetricSnapshot(data.Series[m], m, spec, cfg.Windows.TrendDays)
	}

	snaps.BTC = buildBTCSnapshot(data.Series[model.MetricBTC], cfg.Windows.MADays)
	return snaps
}

func buildMetricSnapshot(points []model.Point, m model.Metric, spec config.MetricSpec, trendDays int) model.MetricSnapshot {
	pts := model.CleanPoints(points)
	snap := model.MetricSnapshot{Trend: model.TrendUnknown}
	if len(pts) == 0 {
		return snap
	}

	last := pts[len(pts)-1]
	current := last.Value
	snap.Current = &current
	snap.LatestDate = last.Date

	if delta, err := calculator.DeltaByDate(pts, spec.WindowDays); err == nil {
		d := delta
		snap.Delta = &d
	}
	if spec.Acceleration {
		if accel, err := calculator.AccelerationByDate(pts, spec.WindowDays); err == nil {
			a := accel
			snap.Acceleration = &a
		}
	}

	window := trendDays
	if m == model.MetricWALCL {
		window = walclTrendWindow
		if len(pts) < window {
			window = len(pts)
		}
	}
	snap.Trend = calculator.Trend(pts, window)

	return snap
}

func buildBTCSnapshot(points []model.Point, maDays int) model.BTCSnapshot {
	pts := model.CleanPoints(points)
	snap := model.BTCSnapshot{}
	if len(pts) == 0 {
		return snap
	}

	last := pts[len(pts)-1]
	price := last.Value
	snap.CurrentPrice = &price
	snap.LatestDate = last.Date

	ma, err := calculator.MovingAverage(pts, maDays)
	if err != nil || ma == 0 {
		return snap
	}
	snap.MA200 = &ma
	snap.AboveMA = price > ma
	distance := price/ma - 1
	snap.Distance = &distance

	return snap
}
