package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	pts := dailySeries(10, func(i int) float64 { return float64(i + 1) })
	got, err := MovingAverage(pts, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Last four values are 7, 8, 9, 10.
	if math.Abs(got-8.5) > 1e-9 {
		t.Errorf("expected 8.5, got %.4f", got)
	}
}

func TestMovingAverage_WindowLargerThanSeries(t *testing.T) {
	pts := dailySeries(10, func(i int) float64 { return float64(i) })
	if _, err := MovingAverage(pts, 200); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
