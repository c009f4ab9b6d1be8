// Package worker syncs committed entries from SQLite to the configured
// exporter, driven by AMQP messages with a periodic retry sweep.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fareledger/internal/amqp"
	"fareledger/internal/core"
	"fareledger/internal/export"
	"fareledger/internal/log"
	"fareledger/internal/storage"
)

type ExportWorker struct {
	storage   *storage.Repository
	exporter  export.EntryExporter
	batchSize int
}

func NewExportWorker(storage *storage.Repository, exporter export.EntryExporter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes one export request from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.EntryExportMessage) error {
	slog.InfoContext(ctx, "processing export message", log.FieldEntryID, msg.ID)

	entry, err := w.storage.GetEntry(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}
	return w.exportOne(ctx, entry)
}

// ProcessPending sweeps entries that never made it out, oldest first. Runs
// periodically and at startup so a lost message doesn't strand an entry.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	entries, err := w.storage.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending entries", "count", len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.exportOne(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "pending export failed", log.FieldEntryID, entry.ID, log.FieldError, err)
		}
	}
	return nil
}

// StartupSyncCheck is ProcessPending at boot, logged as such.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "running startup sync check")
	return w.ProcessPending(ctx)
}

// exportOne appends the entry to the exporter and records the outcome in
// the sync columns. An export failure marks sync_error so the retry sweep
// doesn't loop on a permanently broken row.
func (w *ExportWorker) exportOne(ctx context.Context, entry core.LedgerEntry) error {
	ref, err := w.exporter.Append(ctx, entry)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, entry.ID); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark sync error", log.FieldEntryID, entry.ID, log.FieldError, markErr)
		}
		return fmt.Errorf("export entry: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, entry.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "entry exported",
		log.FieldEntryID, entry.ID,
		log.FieldEntryKind, entry.Kind,
		log.FieldSheetsRef, ref)
	return nil
}
