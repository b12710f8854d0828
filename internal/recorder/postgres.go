package recorder

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/wheelscreener/screener/internal/models"
)

// Postgres records screening runs and their per-ticker results.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection and ensures the schema exists.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS screener_runs (
			id BIGSERIAL PRIMARY KEY,
			run_at TIMESTAMPTZ NOT NULL,
			total_tickers INT NOT NULL,
			candidates INT NOT NULL,
			passed INT NOT NULL,
			near_misses INT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS screener_results (
			id BIGSERIAL PRIMARY KEY,
			run_id BIGINT NOT NULL REFERENCES screener_runs(id),
			symbol TEXT NOT NULL,
			name TEXT,
			status TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			ema50 DOUBLE PRECISION NOT NULL,
			diff_pct DOUBLE PRECISION NOT NULL,
			adx DOUBLE PRECISION NOT NULL,
			rsi DOUBLE PRECISION NOT NULL,
			rvi DOUBLE PRECISION NOT NULL,
			macd DOUBLE PRECISION NOT NULL,
			macd_signal DOUBLE PRECISION NOT NULL,
			failed_criterion TEXT
		)
	`)
	return err
}

// SaveRun stores the run envelope and all result rows in one transaction.
func (p *Postgres) SaveRun(ctx context.Context, snap models.RunSnapshot) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO screener_runs (run_at, total_tickers, candidates, passed, near_misses)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		snap.Timestamp, snap.TotalTickersAnalyzed, snap.CandidatesAfterPrefilter,
		snap.PassedAllCriteria, snap.NearMisses,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, r := range snap.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO screener_results (
				run_id, symbol, name, status, price, ema50, diff_pct,
				adx, rsi, rvi, macd, macd_signal, failed_criterion
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
			runID, r.Symbol, r.Name, string(r.Status), r.Price, r.EMA50, r.DiffPct,
			r.ADX, r.RSI, r.RVI, r.MACD, r.MACDSignal, nullable(r.FailedCriterion),
		)
		if err != nil {
			return fmt.Errorf("inserting result for %s: %w", r.Symbol, err)
		}
	}

	return tx.Commit()
}

// Close releases the database connection.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
