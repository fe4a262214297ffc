package calculator

import (
	"errors"

	"FlowState/internal/model"
)

// ErrInsufficientData is returned when a series is too short, or lacks a
// point old enough, for the requested computation. Callers score it as
// neutral rather than failing the cycle.
var ErrInsufficientData = errors.New("insufficient data")

// ErrZeroBaseline is returned when the past value is zero and a percentage
// change is undefined.
var ErrZeroBaseline = errors.New("zero baseline value")

// DeltaByDate computes the percentage change between the last point and the
// latest point dated at or before (lastDate - lookbackDays). Date-based
// lookback is required because several sources publish at irregular cadence
// (the Fed balance sheet is weekly); counting points back would misstate
// elapsed time.
func DeltaByDate(points []model.Point, lookbackDays int) (float64, error) {
	pts := model.CleanPoints(points)
	if len(pts) < 2 {
		return 0, ErrInsufficientData
	}

	current := pts[len(pts)-1]
	cutoff := current.Date.AddDate(0, 0, -lookbackDays)

	// Latest point at or before the cutoff.
	past := model.Point{}
	found := false
	for i := len(pts) - 1; i >= 0; i-- {
		if !pts[i].Date.After(cutoff) {
			past = pts[i]
			found = true
			break
		}
	}
	if !found {
		return 0, ErrInsufficientData
	}
	if past.Value == 0 {
		return 0, ErrZeroBaseline
	}

	return (current.Value - past.Value) / abs(past.Value), nil
}

// AccelerationByDate computes the change in the lookback delta itself: the
// current delta minus the delta that would have been observed lookbackDays
// ago. Fails when either delta is unavailable.
func AccelerationByDate(points []model.Point, lookbackDays int) (float64, error) {
	pts := model.CleanPoints(points)
	if len(pts) < 3 {
		return 0, ErrInsufficientData
	}

	currentDelta, err := DeltaByDate(pts, lookbackDays)
	if err != nil {
		return 0, err
	}

	cutoff := pts[len(pts)-1].Date.AddDate(0, 0, -lookbackDays)
	var prior []model.Point
	for _, p := range pts {
		if !p.Date.After(cutoff) {
			prior = append(prior, p)
		}
	}
	previousDelta, err := DeltaByDate(prior, lookbackDays)
	if err != nil {
		return 0, err
	}

	return currentDelta - previousDelta, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
