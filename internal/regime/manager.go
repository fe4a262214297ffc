package regime

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"FlowState/internal/model"
)

// scoreTrendDeadband is the band within which the score trend reads flat.
const scoreTrendDeadband = 0.5

// Config holds the classification thresholds and hysteresis tuning.
type Config struct {
	AggressiveThreshold     float64
	DefensiveThreshold      float64
	ConsecutiveDaysRequired int
	MarginOverride          float64
}

// Manager owns the persisted regime state and applies the hysteresis
// transition rules. All mutation happens under the mutex: concurrent
// evaluation cycles (cron, dashboard, manual refresh) serialize here so a
// consecutive-day increment is never lost.
type Manager struct {
	mu    sync.Mutex
	cfg   Config
	store Store
	state *model.RegimeState
}

// NewManager creates a Manager, loading state from the store. Unreadable
// state falls back to the fresh default; an evaluation cycle never dies on
// a corrupt state file.
func NewManager(cfg Config, store Store) *Manager {
	state, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("regime state unreadable, starting fresh at balanced")
		state = model.NewRegimeState()
	}
	return &Manager{cfg: cfg, store: store, state: state}
}

// State returns a copy of the current persisted state.
func (m *Manager) State() *model.RegimeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Outcome is the result of one evaluation cycle.
type Outcome struct {
	Regime   model.Regime
	Previous model.Regime
	Flipped  bool
	Info     model.RegimeInfo
	State    *model.RegimeState // copy of the persisted state after the cycle
}

// Evaluate runs one classification cycle: raw classification, hysteresis
// transition decision, state mutation, and persistence. The clock is passed
// in so identical inputs always produce identical outputs.
func (m *Manager) Evaluate(score model.CompositeScore, now time.Time) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	previous := st.CurrentRegime
	proposed := m.classify(score.Total, score.BTCAboveMA)

	st.ScoreHistory = append(st.ScoreHistory, score.Total)
	st.TrimHistory()
	st.LastScore = score.Total

	// Consecutive days track the raw classification, not the displayed
	// regime: reset to 1 on change, bumped while it holds.
	if proposed == st.ProposedRegime {
		st.ConsecutiveDays++
	} else {
		st.ProposedRegime = proposed
		st.ConsecutiveDays = 1
	}

	flipped := false
	if st.CurrentRegime != proposed && m.shouldFlip(st.CurrentRegime, proposed, st.ConsecutiveDays, score.Total) {
		log.Info().
			Str("from", st.CurrentRegime.String()).
			Str("to", proposed.String()).
			Float64("score", score.Total).
			Msg("regime flip confirmed")
		st.CurrentRegime = proposed
		start := now
		st.RegimeStartDate = &start
		st.ConsecutiveDays = 0
		flipped = true
	}

	info := m.buildInfo(st, proposed, score, now)

	if err := m.store.Save(st); err != nil {
		log.Warn().Err(err).Msg("failed to persist regime state")
	}

	return Outcome{
		Regime:   st.CurrentRegime,
		Previous: previous,
		Flipped:  flipped,
		Info:     info,
		State:    st.Clone(),
	}
}

// classify is the memoryless mapping from score and gate to a raw regime.
// Aggressive needs the BTC gate; defensive ignores the gate entirely, so a
// failing gate can veto aggressive but never force defensive.
func (m *Manager) classify(score float64, gate bool) model.Regime {
	switch {
	case score >= m.cfg.AggressiveThreshold && gate:
		return model.RegimeAggressive
	case score <= m.cfg.DefensiveThreshold:
		return model.RegimeDefensive
	default:
		return model.RegimeBalanced
	}
}

// shouldFlip applies the anti-whipsaw rules: either the raw classification
// held for the required number of cycles, or the score cleared the
// threshold by more than the override margin. A flip back to balanced
// needs margin clearance from both thresholds at once.
func (m *Manager) shouldFlip(current, proposed model.Regime, consecutiveDays int, score float64) bool {
	if current == proposed {
		return false
	}
	if consecutiveDays >= m.cfg.ConsecutiveDaysRequired {
		return true
	}

	margin := m.cfg.MarginOverride
	switch proposed {
	case model.RegimeAggressive:
		return score >= m.cfg.AggressiveThreshold+margin
	case model.RegimeDefensive:
		return score <= m.cfg.DefensiveThreshold-margin
	default:
		fromAggressive := m.cfg.AggressiveThreshold - score
		fromDefensive := score - m.cfg.DefensiveThreshold
		return math.Min(fromAggressive, fromDefensive) >= margin
	}
}

func (m *Manager) buildInfo(st *model.RegimeState, proposed model.Regime, score model.CompositeScore, now time.Time) model.RegimeInfo {
	info := model.RegimeInfo{
		Regime:          st.CurrentRegime,
		ProposedRegime:  proposed,
		Score:           score.Total,
		GatePassed:      score.BTCAboveMA,
		ConsecutiveDays: st.ConsecutiveDays,
		ScoreTrend:      scoreTrend(st.ScoreHistory),
		PendingFlip:     proposed != st.CurrentRegime,
	}

	if st.RegimeStartDate != nil {
		days := int(now.Sub(*st.RegimeStartDate).Hours() / 24)
		info.DaysInRegime = &days
	}
	if info.PendingFlip {
		remaining := m.cfg.ConsecutiveDaysRequired - st.ConsecutiveDays
		if remaining < 0 {
			remaining = 0
		}
		info.DaysUntilFlip = &remaining
	}

	return info
}

// scoreTrend compares the mean of the last 3 scores against the mean of
// the 2 before them within the trailing 5-entry window.
func scoreTrend(history []float64) model.ScoreTrend {
	if len(history) < 5 {
		return model.ScoreFlat
	}
	recent := history[len(history)-5:]
	avgRecent := (recent[2] + recent[3] + recent[4]) / 3
	avgPrior := (recent[0] + recent[1]) / 2

	switch {
	case avgRecent > avgPrior+scoreTrendDeadband:
		return model.ScoreImproving
	case avgRecent < avgPrior-scoreTrendDeadband:
		return model.ScoreDeteriorating
	default:
		return model.ScoreFlat
	}
}
