package model

import (
	"math"
	"sort"
	"time"
)

// Point is a single (date, value) observation in a time series.
type Point struct {
	Date  time.Time
	Value float64
}

// Dataset holds the raw series for every tracked indicator, keyed by metric.
// A missing or empty entry means the source was unavailable.
type Dataset struct {
	Series    map[Metric][]Point
	FetchedAt time.Time
}

// CleanPoints drops NaN/Inf values and returns the points sorted by date.
// Duplicate dates are kept; downstream lookups tolerate them.
func CleanPoints(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
