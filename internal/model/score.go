package model

// ScoreEntry is one indicator's scoring result.
type ScoreEntry struct {
	Metric   Metric
	Signal   int // -1, 0, or +1
	Weight   float64
	Weighted float64
	Reason   string
}

// CompositeScore is the weighted sum of all indicator signals plus the
// independently computed BTC gate.
type CompositeScore struct {
	Entries     map[Metric]ScoreEntry
	Total       float64
	MaxPossible float64 // +sum of weights, display scaling only
	MinPossible float64
	BTCAboveMA  bool
	BTCDistance *float64
}
