package recorder

import (
	"time"

	"FlowState/internal/model"
)

// EvaluationRecord holds one evaluation cycle's scoring output.
type EvaluationRecord struct {
	Timestamp       time.Time
	Score           model.CompositeScore
	Regime          model.Regime
	ProposedRegime  model.Regime
	ConsecutiveDays int
}

// FlipRecord records a confirmed regime transition.
type FlipRecord struct {
	Timestamp time.Time
	From      model.Regime
	To        model.Regime
	Score     float64
}

// Recorder persists evaluation history for analysis and dashboards.
type Recorder interface {
	RecordEvaluation(rec *EvaluationRecord) error
	RecordFlip(rec *FlipRecord) error
	Close() error
}
