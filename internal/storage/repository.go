// Package storage persists the ledger in SQLite. The entries table is
// append-only apart from the sync bookkeeping columns the export worker
// updates.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fareledger/internal/core"
	"fareledger/internal/ledger"
	"fareledger/internal/log"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db      *sql.DB
	queries *Queries
}

var _ ledger.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
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

	return &Repository{db: db, queries: New(db)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.Store.
func (r *Repository) Append(ctx context.Context, e core.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	row, err := r.queries.CreateEntry(ctx, CreateEntryParams{
		ID:          e.ID,
		Kind:        string(e.Kind),
		AmountCents: e.Amount.Cents,
		Category:    string(e.Category),
		Note:        e.Note,
		CreatedAt:   e.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	slog.InfoContext(ctx, "entry saved to sqlite",
		log.FieldEntryID, row.ID,
		log.FieldEntryKind, row.Kind,
		log.FieldAmountCents, row.AmountCents,
		log.FieldCategory, row.Category)
	return nil
}

// List implements ledger.Store; entries come back in insertion order.
func (r *Repository) List(ctx context.Context, kind core.EntryKind) ([]core.LedgerEntry, error) {
	rows, err := r.queries.ListEntriesByKind(ctx, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	entries := make([]core.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = entryFromRow(row)
	}
	return entries, nil
}

// SumRange implements ledger.Store.
func (r *Repository) SumRange(ctx context.Context, kind core.EntryKind, from, to time.Time) (core.Money, error) {
	total, err := r.queries.SumEntriesInRange(ctx, SumEntriesInRangeParams{
		Kind: string(kind),
		From: from.UTC(),
		To:   to.UTC(),
	})
	if err != nil {
		return core.Money{}, fmt.Errorf("sum entries: %w", err)
	}
	return core.Money{Cents: total}, nil
}

// GetEntry loads a single entry by ID, for the export worker.
func (r *Repository) GetEntry(ctx context.Context, id string) (core.LedgerEntry, error) {
	row, err := r.queries.GetEntry(ctx, id)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("get entry: %w", err)
	}
	return entryFromRow(row), nil
}

// PendingSync returns entries that still need exporting, oldest first.
func (r *Repository) PendingSync(ctx context.Context, limit int) ([]core.LedgerEntry, error) {
	rows, err := r.queries.GetPendingSyncEntries(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync entries: %w", err)
	}
	entries := make([]core.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = entryFromRow(row)
	}
	return entries, nil
}

// MarkSynced records a successful export.
func (r *Repository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkEntrySynced(ctx, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	slog.InfoContext(ctx, "entry marked as synced", log.FieldEntryID, id)
	return nil
}

// MarkSyncError flags an entry whose export failed so periodic retries skip it.
func (r *Repository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkEntrySyncError(ctx, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "entry marked with sync error", log.FieldEntryID, id)
	return nil
}

func entryFromRow(row Entry) core.LedgerEntry {
	return core.LedgerEntry{
		ID:        row.ID,
		Kind:      core.EntryKind(row.Kind),
		Amount:    core.Money{Cents: row.AmountCents},
		Category:  core.ExpenseCategory(row.Category),
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
	}
}
