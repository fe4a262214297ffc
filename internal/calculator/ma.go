package calculator

import "FlowState/internal/model"

// MovingAverage computes the simple arithmetic mean of the last window
// values. Used for the 200-sample BTC average that gates the aggressive
// regime; the window counts samples, not calendar days.
func MovingAverage(points []model.Point, window int) (float64, error) {
	pts := model.CleanPoints(points)
	if window <= 0 || len(pts) < window {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(pts) - window; i < len(pts); i++ {
		sum += pts[i].Value
	}
	return sum / float64(window), nil
}
