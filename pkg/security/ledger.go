package security

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"
	"go.mau.fi/util/jsontime"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS tool_actions (
	id           TEXT PRIMARY KEY,
	recorded_at  INTEGER NOT NULL,
	window_count INTEGER NOT NULL,
	budget_used  INTEGER NOT NULL,
	allowed      BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS tool_actions_recorded_at_idx ON tool_actions (recorded_at);
`

// Ledger is an append-only sqlite record of metered actions.
type Ledger struct {
	db *dbutil.Database
}

type LedgerEntry struct {
	ID          string             `json:"id"`
	RecordedAt  jsontime.UnixMilli `json:"recorded_at"`
	WindowCount int                `json:"window_count"`
	BudgetUsed  int                `json:"budget_used"`
	Allowed     bool               `json:"allowed"`
}

// OpenLedger opens (creating if needed) a sqlite ledger at path.
func OpenLedger(ctx context.Context, path string) (*Ledger, error) {
	raw, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db, err := dbutil.NewWithDB(raw, "sqlite3")
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("wrap db: %w", err)
	}
	return NewLedger(ctx, db)
}

// NewLedger wraps an existing database and makes sure the schema exists.
func NewLedger(ctx context.Context, db *dbutil.Database) (*Ledger, error) {
	if _, err := db.Exec(ctx, ledgerSchema); err != nil {
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.RawDB.Close()
}

func (l *Ledger) Record(ctx context.Context, at time.Time, windowCount, budgetUsed int, allowed bool) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO tool_actions (id, recorded_at, window_count, budget_used, allowed)
         VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), at.UnixMilli(), windowCount, budgetUsed, allowed,
	)
	return err
}

// Since returns the times of all actions recorded after t, oldest first.
func (l *Ledger) Since(ctx context.Context, t time.Time) ([]time.Time, error) {
	rows, err := l.db.Query(ctx,
		`SELECT recorded_at FROM tool_actions WHERE recorded_at > $1 ORDER BY recorded_at ASC`,
		t.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		times = append(times, time.UnixMilli(ms))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return times, nil
}

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(ctx,
		`SELECT id, recorded_at, window_count, budget_used, allowed
         FROM tool_actions
         ORDER BY recorded_at DESC
         LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var (
			entry LedgerEntry
			ms    int64
		)
		if err := rows.Scan(&entry.ID, &ms, &entry.WindowCount, &entry.BudgetUsed, &entry.Allowed); err != nil {
			return nil, err
		}
		entry.RecordedAt = jsontime.UM(time.UnixMilli(ms))
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
