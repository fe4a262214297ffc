package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"FlowState/internal/model"
	"FlowState/internal/scheduler"
)

// indicatorView is one indicator row of the dashboard payload.
type indicatorView struct {
	Current    *float64 `json:"current"`
	Delta      *float64 `json:"delta"`
	Direction  string   `json:"direction"`
	Signal     int      `json:"signal"`
	Weight     float64  `json:"weight"`
	Weighted   float64  `json:"weighted"`
	Reason     string   `json:"reason"`
	LatestDate *string  `json:"latest_date"`
}

type btcView struct {
	CurrentPrice *float64 `json:"current_price"`
	MA200        *float64 `json:"ma_200"`
	Above200DMA  bool     `json:"above_200dma"`
	Distance     *float64 `json:"distance"`
}

type thresholdsView struct {
	Aggressive float64 `json:"aggressive"`
	Defensive  float64 `json:"defensive"`
}

type dashboardView struct {
	Regime      model.Regime                     `json:"regime"`
	Score       float64                          `json:"score"`
	MaxPossible float64                          `json:"max_possible"`
	MinPossible float64                          `json:"min_possible"`
	Thresholds  thresholdsView                   `json:"thresholds"`
	RegimeInfo  model.RegimeInfo                 `json:"regime_info"`
	RegimeStart *string                          `json:"regime_start_date"`
	Indicators  map[model.Metric]indicatorView   `json:"indicators"`
	BTC         btcView                          `json:"btc"`
	Explanation model.Explanation                `json:"explanation"`
	Timestamp   string                           `json:"timestamp"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result := s.sched.RunCycle(r.Context())
	writeJSON(w, http.StatusOK, buildDashboard(result, s.cfg.Regime.AggressiveThreshold, s.cfg.Regime.DefensiveThreshold))
}

func buildDashboard(result *scheduler.CycleResult, aggressive, defensive float64) dashboardView {
	indicators := make(map[model.Metric]indicatorView, len(model.ScoredMetrics))
	for _, m := range model.ScoredMetrics {
		snap := result.Snapshots.Metrics[m]
		entry := result.Score.Entries[m]
		view := indicatorView{
			Current:   snap.Current,
			Delta:     snap.Delta,
			Direction: snap.Trend.String(),
			Signal:    entry.Signal,
			Weight:    entry.Weight,
			Weighted:  entry.Weighted,
			Reason:    entry.Reason,
		}
		if !snap.LatestDate.IsZero() {
			d := snap.LatestDate.Format("2006-01-02")
			view.LatestDate = &d
		}
		indicators[m] = view
	}

	view := dashboardView{
		Regime:      result.Outcome.Regime,
		Score:       result.Score.Total,
		MaxPossible: result.Score.MaxPossible,
		MinPossible: result.Score.MinPossible,
		Thresholds:  thresholdsView{Aggressive: aggressive, Defensive: defensive},
		RegimeInfo:  result.Outcome.Info,
		Indicators:  indicators,
		BTC: btcView{
			CurrentPrice: result.Snapshots.BTC.CurrentPrice,
			MA200:        result.Snapshots.BTC.MA200,
			Above200DMA:  result.Snapshots.BTC.AboveMA,
			Distance:     result.Snapshots.BTC.Distance,
		},
		Explanation: result.Explanation,
		Timestamp:   result.Timestamp.UTC().Format(time.RFC3339),
	}
	if result.Outcome.State.RegimeStartDate != nil {
		d := result.Outcome.State.RegimeStartDate.UTC().Format(time.RFC3339)
		view.RegimeStart = &d
	}
	return view
}

// handleRefresh drops all cached series so the next cycle fetches live
// data, then runs one immediately.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.cache.InvalidateAll(r.Context())
	result := s.sched.RunCycle(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"regime":  result.Outcome.Regime,
		"score":   result.Score.Total,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"fred_key_configured": s.cfg.Sources.FREDAPIKey != "",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
