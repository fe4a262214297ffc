package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"FlowState/internal/model"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads do not block the evaluation writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			walcl_weighted      REAL,
			rrp_weighted        REAL,
			hy_spread_weighted  REAL,
			dxy_weighted        REAL,
			stablecoin_weighted REAL,
			total_score         REAL,
			max_possible        REAL,
			btc_gate            INTEGER,
			regime              TEXT,
			proposed_regime     TEXT,
			consecutive_days    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS regime_flips (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			from_regime TEXT,
			to_regime   TEXT,
			score       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_flips_ts ON regime_flips(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(rec *EvaluationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	weighted := func(m model.Metric) float64 {
		return rec.Score.Entries[m].Weighted
	}
	gate := 0
	if rec.Score.BTCAboveMA {
		gate = 1
	}

	_, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, walcl_weighted, rrp_weighted, hy_spread_weighted,
		 dxy_weighted, stablecoin_weighted,
		 total_score, max_possible, btc_gate,
		 regime, proposed_regime, consecutive_days)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.Timestamp.Unix(),
		weighted(model.MetricWALCL), weighted(model.MetricRRP), weighted(model.MetricHYSpread),
		weighted(model.MetricDXY), weighted(model.MetricStablecoin),
		rec.Score.Total, rec.Score.MaxPossible, gate,
		rec.Regime.String(), rec.ProposedRegime.String(), rec.ConsecutiveDays,
	)
	return err
}

func (r *SQLiteRecorder) RecordFlip(rec *FlipRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO regime_flips
		(timestamp, from_regime, to_regime, score)
		VALUES (?,?,?,?)`,
		rec.Timestamp.Unix(), rec.From.String(), rec.To.String(), rec.Score,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
