// Package storage persists reconciliation run history to SQLite.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
)

// Storage handles database operations for run history.
type Storage struct {
	db *sql.DB
}

// New creates a new storage instance and runs migrations.
func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartRun records the beginning of a reconciliation run and returns
// its ID.
func (s *Storage) StartRun(dryRun bool) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)`,
		id, time.Now().UTC(), dryRun,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// CompleteRun finalizes a run with its result counts.
func (s *Storage) CompleteRun(runID string, joined, remainingTxns, remainingOrders, remainingReturns int) error {
	res, err := s.db.Exec(
		`UPDATE runs
		 SET finished_at = ?, joined_count = ?, remaining_transactions = ?,
		     remaining_orders = ?, remaining_returns = ?
		 WHERE id = ?`,
		time.Now().UTC(), joined, remainingTxns, remainingOrders, remainingReturns, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// SaveJoinedRecord persists one joined record for a run.
func (s *Storage) SaveJoinedRecord(runID string, record *ledger.JoinedRecord) error {
	itemsJSON, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO joined_records
		 (run_id, transaction_id, order_id, order_date, amount, is_unmodified, items_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, record.TransactionID, record.OrderID, record.OrderDate,
		record.Amount, record.IsUnmodified, string(itemsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert joined record: %w", err)
	}
	return nil
}

// GetRun retrieves a single run by ID.
func (s *Storage) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, finished_at, dry_run, joined_count,
		        remaining_transactions, remaining_orders, remaining_returns
		 FROM runs WHERE id = ?`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// GetRecentRuns returns the most recent runs, newest first.
func (s *Storage) GetRecentRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, dry_run, joined_count,
		        remaining_transactions, remaining_orders, remaining_returns
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRecordsByRun returns all joined records saved for a run.
func (s *Storage) GetRecordsByRun(runID string) ([]*JoinedRecordRow, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, transaction_id, order_id, order_date, amount,
		        is_unmodified, items_json
		 FROM joined_records WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query joined records: %w", err)
	}
	defer rows.Close()

	var records []*JoinedRecordRow
	for rows.Next() {
		var r JoinedRecordRow
		if err := rows.Scan(&r.ID, &r.RunID, &r.TransactionID, &r.OrderID,
			&r.OrderDate, &r.Amount, &r.IsUnmodified, &r.ItemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan joined record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// Items deserializes a row's itemization.
func (r *JoinedRecordRow) Items() ([]ledger.JoinedItem, error) {
	var items []ledger.JoinedItem
	if err := json.Unmarshal([]byte(r.ItemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return items, nil
}

// GetStats returns aggregate statistics across all runs.
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(amount), 0),
		        COALESCE(SUM(CASE WHEN is_unmodified THEN 1 ELSE 0 END), 0)
		 FROM joined_records`,
	).Scan(&stats.TotalJoined, &stats.TotalAmount, &stats.UnmodifiedRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate joined records: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.StartedAt, &finishedAt, &run.DryRun,
		&run.JoinedCount, &run.RemainingTransactions, &run.RemainingOrders,
		&run.RemainingReturns); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}
