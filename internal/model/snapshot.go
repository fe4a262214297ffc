package model

import "time"

// MetricSnapshot holds the derived state of one indicator.
// Nil pointers mean the quantity could not be computed from the
// available history; scoring treats that as neutral, never as zero.
type MetricSnapshot struct {
	Current      *float64
	Delta        *float64 // percentage change over the configured lookback, signed
	Acceleration *float64 // delta-of-delta, only computed where configured
	Trend        Trend
	LatestDate   time.Time // zero when the series is empty
}

// BTCSnapshot holds the BTC gate inputs derived from the price series.
type BTCSnapshot struct {
	CurrentPrice *float64
	MA200        *float64
	AboveMA      bool
	Distance     *float64 // signed fraction of price above/below the 200-sample MA
	LatestDate   time.Time
}

// Snapshots bundles all derived indicator state for one evaluation cycle.
type Snapshots struct {
	Metrics map[Metric]MetricSnapshot
	BTC     BTCSnapshot
}
