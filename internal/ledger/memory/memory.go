// Package memory holds an in-process ledger store used as the default
// backend and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"fareledger/internal/core"
	"fareledger/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries []core.LedgerEntry
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append validates and stores the entry.
func (s *Store) Append(_ context.Context, e core.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// List returns entries of one kind in insertion order.
func (s *Store) List(_ context.Context, kind core.EntryKind) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.LedgerEntry
	for _, e := range s.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

// SumRange totals entries of one kind created in [from, to).
func (s *Store) SumRange(_ context.Context, kind core.EntryKind, from, to time.Time) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cents int64
	for _, e := range s.entries {
		if e.Kind != kind {
			continue
		}
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		cents += e.Amount.Cents
	}
	return core.Money{Cents: cents}, nil
}

// Len reports the total number of stored entries of every kind.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
