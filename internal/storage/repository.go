// Package storage persists the ledger and its derived summary in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ghostfund/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadLedger returns every deposit row in its persisted order. An empty
// table is the first-run state, not an error.
func (r *SQLiteRepository) LoadLedger(ctx context.Context) ([]core.DepositRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, time, name, phone, amount, how_saved FROM deposits ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query deposits: %w", err)
	}
	defer rows.Close()

	var out []core.DepositRow
	for rows.Next() {
		var d core.DepositRow
		if err := rows.Scan(&d.Date, &d.Time, &d.Name, &d.Phone, &d.Amount, &d.HowSaved); err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deposits: %w", err)
	}
	return out, nil
}

// LoadSummary returns the persisted per-contact totals.
func (r *SQLiteRepository) LoadSummary(ctx context.Context) ([]core.SummaryRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, phone, total_amount FROM summary ORDER BY name, phone`)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var out []core.SummaryRow
	for rows.Next() {
		var s core.SummaryRow
		if err := rows.Scan(&s.Name, &s.Phone, &s.Total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return out, nil
}

// ReplaceLedger rewrites the ledger and summary tables in one transaction,
// so a reader sees either the prior ledger or the full updated one, never a
// partial write.
func (r *SQLiteRepository) ReplaceLedger(ctx context.Context, ledger []core.DepositRow, summary []core.SummaryRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deposits`); err != nil {
		return fmt.Errorf("clear deposits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM summary`); err != nil {
		return fmt.Errorf("clear summary: %w", err)
	}

	insRow, err := tx.PrepareContext(ctx,
		`INSERT INTO deposits (position, date, time, name, phone, amount, how_saved) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare deposit insert: %w", err)
	}
	defer insRow.Close()
	for i, d := range ledger {
		if _, err := insRow.ExecContext(ctx, i+1, d.Date, d.Time, d.Name, d.Phone, d.Amount, d.HowSaved); err != nil {
			return fmt.Errorf("insert deposit %d: %w", i, err)
		}
	}

	insSum, err := tx.PrepareContext(ctx,
		`INSERT INTO summary (name, phone, total_amount) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare summary insert: %w", err)
	}
	defer insSum.Close()
	for i, s := range summary {
		if _, err := insSum.ExecContext(ctx, s.Name, s.Phone, s.Total); err != nil {
			return fmt.Errorf("insert summary %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger replace: %w", err)
	}

	slog.InfoContext(ctx, "Ledger persisted",
		"rows", len(ledger),
		"summary_groups", len(summary))
	return nil
}
