package storage

import "time"

// Run is one recorded reconciliation run.
type Run struct {
	ID                    string     `json:"id"`
	StartedAt             time.Time  `json:"started_at"`
	FinishedAt            *time.Time `json:"finished_at,omitempty"`
	DryRun                bool       `json:"dry_run"`
	JoinedCount           int        `json:"joined_count"`
	RemainingTransactions int        `json:"remaining_transactions"`
	RemainingOrders       int        `json:"remaining_orders"`
	RemainingReturns      int        `json:"remaining_returns"`
}

// JoinedRecordRow is a persisted joined record, with its itemization
// serialized as JSON.
type JoinedRecordRow struct {
	ID            int64     `json:"id"`
	RunID         string    `json:"run_id"`
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id"`
	OrderDate     time.Time `json:"order_date"`
	Amount        float64   `json:"amount"`
	IsUnmodified  bool      `json:"is_unmodified"`
	ItemsJSON     string    `json:"-"`
}

// Stats aggregates across all recorded runs.
type Stats struct {
	TotalRuns         int     `json:"total_runs"`
	TotalJoined       int     `json:"total_joined"`
	TotalAmount       float64 `json:"total_amount"`
	UnmodifiedRecords int     `json:"unmodified_records"`
}
