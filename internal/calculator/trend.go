package calculator

import "FlowState/internal/model"

// trendDeadband is the normalized-slope band treated as flat.
const trendDeadband = 0.02

// Trend fits a least-squares slope over the last window points, normalizes
// it by the window mean and window length, and classifies the direction.
// Returns TrendUnknown when fewer than window points exist.
func Trend(points []model.Point, window int) model.Trend {
	pts := model.CleanPoints(points)
	if window <= 0 || len(pts) < window {
		return model.TrendUnknown
	}

	recent := pts[len(pts)-window:]
	n := float64(window)

	var sumX, sumY float64
	for i, p := range recent {
		sumX += float64(i)
		sumY += p.Value
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i, p := range recent {
		dx := float64(i) - meanX
		num += dx * (p.Value - meanY)
		den += dx * dx
	}
	if den == 0 || meanY == 0 {
		return model.TrendFlat
	}

	normalized := (num / den) / abs(meanY) * n

	switch {
	case normalized > trendDeadband:
		return model.TrendUp
	case normalized < -trendDeadband:
		return model.TrendDown
	default:
		return model.TrendFlat
	}
}
