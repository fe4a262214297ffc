package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"FlowState/internal/collector"
	"FlowState/internal/config"
	"FlowState/internal/model"
	"FlowState/internal/notifier"
	"FlowState/internal/recorder"
	"FlowState/internal/regime"
	"FlowState/internal/scoring"
	"FlowState/internal/telemetry"
)

// CycleResult bundles everything one evaluation cycle produced. The HTTP
// dashboard serves the latest result; the briefing task formats it.
type CycleResult struct {
	Snapshots   model.Snapshots
	Score       model.CompositeScore
	Outcome     regime.Outcome
	Explanation model.Explanation
	Timestamp   time.Time
}

// Scheduler manages the cron tasks: periodic evaluation cycles and the
// daily briefing.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Regime    *regime.Manager
	Recorder  recorder.Recorder
	Notifier  *notifier.DiscordNotifier // nil when no webhook is configured
	Cfg       *config.Config
	Ctx       context.Context

	mu   sync.Mutex
	last *CycleResult
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rm *regime.Manager, rec recorder.Recorder, dn *notifier.DiscordNotifier, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Regime:    rm,
		Recorder:  rec,
		Notifier:  dn,
		Cfg:       cfg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the evaluation and briefing tasks.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.Cfg.Schedule.EvaluateCron, s.evaluateTask); err != nil {
		return fmt.Errorf("register evaluate task: %w", err)
	}
	if _, err := s.Cron.AddFunc(s.Cfg.Schedule.BriefingCron, s.briefingTask); err != nil {
		return fmt.Errorf("register briefing task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunCycle executes one full evaluation: collect, derive, score, classify,
// record, alert on flip. Series-level failures degrade inside the
// collector, so the cycle itself only fails on persistence problems it
// chooses to ignore anyway.
func (s *Scheduler) RunCycle(ctx context.Context) *CycleResult {
	now := time.Now()
	data := s.Collector.Collect(ctx)
	snaps := scoring.BuildSnapshots(data, s.Cfg)
	score := scoring.Calculate(snaps, s.Cfg)
	outcome := s.Regime.Evaluate(score, now)
	expl := scoring.Explain(outcome.Regime, score, snaps, outcome.Info)

	telemetry.Evaluations.Inc()
	telemetry.CompositeScore.Set(score.Total)
	telemetry.SetRegime(outcome.Regime)

	log.Info().
		Float64("score", score.Total).
		Str("regime", outcome.Regime.String()).
		Str("proposed", outcome.Info.ProposedRegime.String()).
		Bool("gate", score.BTCAboveMA).
		Msg("evaluation cycle complete")

	if err := s.Recorder.RecordEvaluation(&recorder.EvaluationRecord{
		Timestamp:       now,
		Score:           score,
		Regime:          outcome.Regime,
		ProposedRegime:  outcome.Info.ProposedRegime,
		ConsecutiveDays: outcome.Info.ConsecutiveDays,
	}); err != nil {
		log.Error().Err(err).Msg("record evaluation")
	}

	if outcome.Flipped {
		telemetry.RegimeFlips.Inc()
		if err := s.Recorder.RecordFlip(&recorder.FlipRecord{
			Timestamp: now,
			From:      outcome.Previous,
			To:        outcome.Regime,
			Score:     score.Total,
		}); err != nil {
			log.Error().Err(err).Msg("record flip")
		}
		s.trySend(notifier.FormatFlipAlert(outcome.Previous, outcome.Regime, score.Total, outcome.Info))
	}

	result := &CycleResult{
		Snapshots:   snaps,
		Score:       score,
		Outcome:     outcome,
		Explanation: expl,
		Timestamp:   now,
	}
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result
}

// LastResult returns the most recent cycle result, or nil before the
// first cycle completes.
func (s *Scheduler) LastResult() *CycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// RunNow executes an evaluation cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() *CycleResult {
	return s.RunCycle(s.Ctx)
}

func (s *Scheduler) evaluateTask() {
	s.RunCycle(s.Ctx)
}

func (s *Scheduler) briefingTask() {
	result := s.RunCycle(s.Ctx)
	embed := notifier.FormatBriefing(result.Score, result.Outcome.Info, result.Explanation, result.Snapshots, s.Cfg.Discord.DashboardURL)
	s.trySend(embed)
}

func (s *Scheduler) trySend(embed notifier.Embed) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, embed, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
