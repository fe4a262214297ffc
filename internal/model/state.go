package model

import "time"

// ScoreHistoryCap bounds the rolling score log kept in RegimeState.
const ScoreHistoryCap = 30

// RegimeState is the single persisted record the hysteresis machine
// mutates each evaluation cycle.
type RegimeState struct {
	CurrentRegime   Regime     `json:"current_regime"`
	ProposedRegime  Regime     `json:"proposed_regime"`
	ConsecutiveDays int        `json:"consecutive_days"`
	LastScore       float64    `json:"last_score"`
	RegimeStartDate *time.Time `json:"regime_start_date"`
	ScoreHistory    []float64  `json:"score_history"`
}

// NewRegimeState returns the fresh default state: balanced, no history.
func NewRegimeState() *RegimeState {
	return &RegimeState{
		CurrentRegime:  RegimeBalanced,
		ProposedRegime: RegimeBalanced,
	}
}

// Normalize fills in defaults for fields missing from a loaded record.
func (s *RegimeState) Normalize() {
	if !s.CurrentRegime.Valid() {
		s.CurrentRegime = RegimeBalanced
	}
	if !s.ProposedRegime.Valid() {
		s.ProposedRegime = RegimeBalanced
	}
	if s.ConsecutiveDays < 0 {
		s.ConsecutiveDays = 0
	}
	s.TrimHistory()
}

// TrimHistory enforces the score history cap.
func (s *RegimeState) TrimHistory() {
	if len(s.ScoreHistory) > ScoreHistoryCap {
		s.ScoreHistory = s.ScoreHistory[len(s.ScoreHistory)-ScoreHistoryCap:]
	}
}

// Clone returns a deep copy so callers can read state without holding locks.
func (s *RegimeState) Clone() *RegimeState {
	c := *s
	if s.RegimeStartDate != nil {
		d := *s.RegimeStartDate
		c.RegimeStartDate = &d
	}
	c.ScoreHistory = append([]float64(nil), s.ScoreHistory...)
	return &c
}
