// Package services composes storage and messaging behind the ledger port.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fareledger/internal/amqp"
	"fareledger/internal/core"
	"fareledger/internal/ledger"
	"fareledger/internal/log"
	"fareledger/internal/storage"
)

// LedgerService appends entries to SQLite and queues them for spreadsheet
// export. It implements ledger.Store so the interpreter and HTTP layer stay
// unaware of the messaging side.
type LedgerService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

var _ ledger.Store = (*LedgerService)(nil)

func NewLedgerService(storage *storage.Repository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{storage: storage, amqpClient: amqpClient}
}

// Append saves the entry locally first, then publishes an export message.
// A publish failure is logged and swallowed: the entry is already safe in
// SQLite and the worker's periodic retry will pick it up.
func (s *LedgerService) Append(ctx context.Context, e core.LedgerEntry) error {
	if err := s.storage.Append(ctx, e); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "amqp client not configured, skipping export message", log.FieldEntryID, e.ID)
		return nil
	}
	if err := s.amqpClient.PublishEntryExport(ctx, e.ID); err != nil {
		slog.ErrorContext(ctx, "failed to publish export message",
			log.FieldEntryID, e.ID, log.FieldError, err)
	}
	return nil
}

func (s *LedgerService) List(ctx context.Context, kind core.EntryKind) ([]core.LedgerEntry, error) {
	return s.storage.List(ctx, kind)
}

func (s *LedgerService) SumRange(ctx context.Context, kind core.EntryKind, from, to time.Time) (core.Money, error) {
	return s.storage.SumRange(ctx, kind, from, to)
}

// Close closes both the storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
