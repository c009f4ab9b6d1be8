// Package ledger defines the store port the interpreter and HTTP layer
// write to and read from.
package ledger

import (
	"context"
	"time"

	"fareledger/internal/core"
)

// Store is an append-only ledger. Committed entries are never updated or
// deleted; List returns entries in insertion order.
type Store interface {
	Append(ctx context.Context, entry core.LedgerEntry) error
	List(ctx context.Context, kind core.EntryKind) ([]core.LedgerEntry, error)
	// SumRange totals entries of one kind with CreatedAt in [from, to).
	SumRange(ctx context.Context, kind core.EntryKind, from, to time.Time) (core.Money, error)
}
