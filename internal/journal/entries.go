package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Action names a recorded mutation.
type Action string

const (
	ActionUpload Action = "upload"
	ActionDelete Action = "delete"
	ActionBundle Action = "bundle"
)

// DefaultLimit bounds Recent when callers pass a non-positive limit.
const DefaultLimit = 50

// Entry is one journal row.
type Entry struct {
	ID        int64     `json:"id"`
	Action    Action    `json:"action"`
	Name      string    `json:"name,omitempty"`
	Bytes     int64     `json:"bytes"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Record appends an entry and returns it with ID and CreatedAt filled in.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	entry.Action = Action(strings.TrimSpace(string(entry.Action)))
	if entry.Action == "" {
		return Entry{}, fmt.Errorf("journal entry requires an action")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			`INSERT INTO entries (action, name, bytes, request_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			string(entry.Action), entry.Name, entry.Bytes, entry.RequestID,
			entry.CreatedAt.Format(time.RFC3339Nano),
		)
		return execErr
	})
	if err != nil {
		return Entry{}, fmt.Errorf("insert journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("journal entry id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, name, bytes, request_id, created_at FROM entries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			action  string
			created string
		)
		if err := rows.Scan(&e.ID, &action, &e.Name, &e.Bytes, &e.RequestID, &created); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Action = Action(action)
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = ts
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

// Counts returns the number of entries per action.
func (s *Store) Counts(ctx context.Context) (map[Action]int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT action, COUNT(*) FROM entries GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("count journal entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[Action]int)
	for rows.Next() {
		var (
			action string
			n      int
		)
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan journal count: %w", err)
		}
		counts[Action(action)] = n
	}
	return counts, rows.Err()
}
