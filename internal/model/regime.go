package model

// Regime is one of the three liquidity regimes shown to users.
type Regime string

const (
	RegimeAggressive Regime = "aggressive"
	RegimeBalanced   Regime = "balanced"
	RegimeDefensive  Regime = "defensive"
)

// Valid checks if the regime is one of the three known states.
func (r Regime) Valid() bool {
	switch r {
	case RegimeAggressive, RegimeBalanced, RegimeDefensive:
		return true
	}
	return false
}

// String returns string representation.
func (r Regime) String() string {
	return string(r)
}

// Trend classifies the direction of a series over a lookback window.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendFlat    Trend = "flat"
	TrendUnknown Trend = "unknown"
)

// String returns string representation.
func (t Trend) String() string {
	return string(t)
}

// ScoreTrend classifies how the composite score has moved recently.
// Cosmetic only; never feeds the transition logic.
type ScoreTrend string

const (
	ScoreImproving     ScoreTrend = "improving"
	ScoreDeteriorating ScoreTrend = "deteriorating"
	ScoreFlat          ScoreTrend = "flat"
)

// String returns string representation.
func (t ScoreTrend) String() string {
	return string(t)
}

// RegimeInfo is the per-cycle classifier output bundle handed to consumers.
type RegimeInfo struct {
	Regime          Regime     `json:"regime"`
	ProposedRegime  Regime     `json:"proposed_regime"`
	Score           float64    `json:"score"`
	GatePassed      bool       `json:"btc_gate_passed"`
	ConsecutiveDays int        `json:"consecutive_days"`
	DaysInRegime    *int       `json:"days_in_regime"`
	ScoreTrend      ScoreTrend `json:"score_trend"`
	PendingFlip     bool       `json:"pending_flip"`
	DaysUntilFlip   *int       `json:"days_until_flip"`
}

// Explanation is the narrative generated for the current regime.
type Explanation struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Posture  string `json:"posture"`
	Warnings string `json:"warnings"`
}
