package model

// Metric identifies a tracked liquidity indicator.
type Metric string

const (
	MetricWALCL      Metric = "walcl"      // Fed balance sheet (weekly)
	MetricRRP        Metric = "rrp"        // Reverse repo balance (daily)
	MetricHYSpread   Metric = "hy_spread"  // High-yield credit spread (daily)
	MetricDXY        Metric = "dxy"        // Trade-weighted dollar index (daily)
	MetricStablecoin Metric = "stablecoin" // Combined stablecoin supply (daily)
	MetricBTC        Metric = "btc"        // BTC spot price (gate only, not scored)
)

// ScoredMetrics lists the five indicators that contribute to the composite
// score, in display order. BTC feeds the gate and is deliberately absent.
var ScoredMetrics = []Metric{MetricWALCL, MetricRRP, MetricHYSpread, MetricDXY, MetricStablecoin}

// Valid checks if the metric is a known indicator.
func (m Metric) Valid() bool {
	switch m {
	case MetricWALCL, MetricRRP, MetricHYSpread, MetricDXY, MetricStablecoin, MetricBTC:
		return true
	}
	return false
}

// String returns string representation.
func (m Metric) String() string {
	return string(m)
}
