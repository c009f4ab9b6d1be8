package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB / *sql.Tx the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Entry mirrors one row of the entries table.
type Entry struct {
	ID          string
	Kind        string
	AmountCents int64
	Category    string
	Note        string
	CreatedAt   time.Time
	Synced      int64
	SyncError   int64
}

const createEntry = `
INSERT INTO entries (id, kind, amount_cents, category, note, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, kind, amount_cents, category, note, created_at, synced, sync_error
`

type CreateEntryParams struct {
	ID          string
	Kind        string
	AmountCents int64
	Category    string
	Note        string
	CreatedAt   time.Time
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, createEntry,
		arg.ID, arg.Kind, arg.AmountCents, arg.Category, arg.Note, arg.CreatedAt)
	var e Entry
	err := row.Scan(&e.ID, &e.Kind, &e.AmountCents, &e.Category, &e.Note, &e.CreatedAt, &e.Synced, &e.SyncError)
	return e, err
}

const getEntry = `
SELECT id, kind, amount_cents, category, note, created_at, synced, sync_error
FROM entries WHERE id = ?
`

func (q *Queries) GetEntry(ctx context.Context, id string) (Entry, error) {
	row := q.db.QueryRowContext(ctx, getEntry, id)
	var e Entry
	err := row.Scan(&e.ID, &e.Kind, &e.AmountCents, &e.Category, &e.Note, &e.CreatedAt, &e.Synced, &e.SyncError)
	return e, err
}

const listEntriesByKind = `
SELECT id, kind, amount_cents, category, note, created_at, synced, sync_error
FROM entries WHERE kind = ? ORDER BY rowid
`

func (q *Queries) ListEntriesByKind(ctx context.Context, kind string) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesByKind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.AmountCents, &e.Category, &e.Note, &e.CreatedAt, &e.Synced, &e.SyncError); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumEntriesInRange = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM entries WHERE kind = ? AND created_at >= ? AND created_at < ?
`

type SumEntriesInRangeParams struct {
	Kind string
	From time.Time
	To   time.Time
}

func (q *Queries) SumEntriesInRange(ctx context.Context, arg SumEntriesInRangeParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, sumEntriesInRange, arg.Kind, arg.From, arg.To)
	var total int64
	err := row.Scan(&total)
	return total, err
}

const getPendingSyncEntries = `
SELECT id, kind, amount_cents, category, note, created_at, synced, sync_error
FROM entries WHERE synced = 0 AND sync_error = 0 ORDER BY rowid LIMIT ?
`

func (q *Queries) GetPendingSyncEntries(ctx context.Context, limit int64) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncEntries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.AmountCents, &e.Category, &e.Note, &e.CreatedAt, &e.Synced, &e.SyncError); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markEntrySynced = `
UPDATE entries SET synced = 1, sync_error = 0 WHERE id = ?
`

func (q *Queries) MarkEntrySynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markEntrySynced, id)
	return err
}

const markEntrySyncError = `
UPDATE entries SET sync_error = 1 WHERE id = ?
`

func (q *Queries) MarkEntrySyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markEntrySyncError, id)
	return err
}
