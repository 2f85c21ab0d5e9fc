// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records formatting runs in a SQLite database so split
// membership can be audited after the output tree has been regenerated.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

// Store manages the run catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			data_dir TEXT NOT NULL,
			annotations_dir TEXT NOT NULL,
			images_dir TEXT NOT NULL,
			train_frac REAL NOT NULL,
			seed INTEGER NOT NULL,
			height_mode TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			report_id TEXT NOT NULL,
			split TEXT NOT NULL,
			status TEXT NOT NULL,
			boxes INTEGER NOT NULL,
			PRIMARY KEY (run_id, report_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_report_id ON reports(report_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and all of its report outcomes in one transaction and
// returns the new run id.
func (s *Store) Record(ctx context.Context, run types.FormatRun) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	cfg := run.Config
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, data_dir, annotations_dir, images_dir, train_frac, seed, height_mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), cfg.DataDir, cfg.AnnotationsDir,
		cfg.ImagesDir, cfg.TrainFrac, int64(cfg.Seed), string(cfg.HeightMode),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reports (run_id, position, report_id, split, status, boxes)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range run.Reports {
		if _, err := stmt.ExecContext(ctx, runID, i, r.ID, string(r.Split), string(r.Status), r.Boxes); err != nil {
			return 0, fmt.Errorf("inserting report %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID         int64            `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	DataDir    string           `json:"data_dir"`
	TrainFrac  float64          `json:"train_frac"`
	Seed       uint64           `json:"seed"`
	HeightMode types.HeightMode `json:"height_mode"`
	Train      int              `json:"train"`
	Validation int              `json:"validation"`
	Skipped    int              `json:"skipped"`
}

// Runs returns the most recent runs first. A limit of zero or less returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.data_dir, r.train_frac, r.seed, r.height_mode,
			COALESCE(SUM(p.status = ? AND p.split = ?), 0),
			COALESCE(SUM(p.status = ? AND p.split = ?), 0),
			COALESCE(SUM(p.status = ?), 0)
		 FROM runs r LEFT JOIN reports p ON p.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.id DESC
		 LIMIT ?`,
		string(types.ReportWritten), string(types.SplitTrain),
		string(types.ReportWritten), string(types.SplitValidation),
		string(types.ReportInvalid), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r       RunSummary
			started string
			seed    int64
			mode    string
		)
		if err := rows.Scan(&r.ID, &started, &r.DataDir, &r.TrainFrac, &seed, &mode,
			&r.Train, &r.Validation, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %d: %w", r.ID, err)
		}
		r.Seed = uint64(seed)
		r.HeightMode = types.HeightMode(mode)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Reports returns the outcomes of one run in processing order.
func (s *Store) Reports(ctx context.Context, runID int64) ([]types.ReportOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report_id, split, status, boxes FROM reports WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reports for run %d: %w", runID, err)
	}
	defer rows.Close()

	var out []types.ReportOutcome
	for rows.Next() {
		var r types.ReportOutcome
		var split, status string
		if err := rows.Scan(&r.ID, &split, &status, &r.Boxes); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.Split = types.SplitName(split)
		r.Status = types.ReportStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
