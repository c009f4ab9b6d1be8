// Package export defines the outbound port for syncing committed entries
// to an external bookkeeping destination.
package export

import (
	"context"

	"fareledger/internal/core"
)

// EntryExporter appends one committed entry to the destination and returns
// an opaque row reference.
type EntryExporter interface {
	Append(ctx context.Context, e core.LedgerEntry) (rowRef string, err error)
}
