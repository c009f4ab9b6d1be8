package voice

import (
	"sync"
	"testing"
	"time"

	"fareledger/internal/core"
)

// commitRecorder collects entries committed by the resolver's timer.
type commitRecorder struct {
	mu      sync.Mutex
	entries []core.LedgerEntry
}

func (c *commitRecorder) commit(e core.LedgerEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *commitRecorder) committed() []core.LedgerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.LedgerEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func TestResolverNoteResolution(t *testing.T) {
	rec := &commitRecorder{}
	r := NewResolver(time.Hour, rec.commit, nil)

	r.Hold(PendingEntry{Kind: core.Expense, Amount: core.Money{Cents: 1500}, Category: core.CategoryGas})

	entry, ok := r.ResolveNote("parking fee")
	if !ok {
		t.Fatal("ResolveNote returned false with a pending entry")
	}
	if entry.Kind != core.Expense || entry.Amount.Cents != 1500 {
		t.Errorf("resolved entry = %+v, want 1500 cent expense", entry)
	}
	if entry.Category != core.CategoryGas {
		t.Errorf("category = %q, want %q", entry.Category, core.CategoryGas)
	}
	if entry.Note != "parking fee" {
		t.Errorf("note = %q, want %q", entry.Note, "parking fee")
	}

	if _, ok := r.Pending(); ok {
		t.Error("resolver should be idle after note resolution")
	}

	// The stopped timer must not fire a duplicate commit.
	time.Sleep(20 * time.Millisecond)
	if n := len(rec.committed()); n != 0 {
		t.Errorf("timer committed %d entries after note resolution, want 0", n)
	}
}

func TestResolverAutoCommitExactlyOnce(t *testing.T) {
	rec := &commitRecorder{}
	r := NewResolver(10*time.Millisecond, rec.commit, nil)

	r.Hold(PendingEntry{Kind: core.Revenue, Amount: core.Money{Cents: 1000}})

	deadline := time.After(time.Second)
	for len(rec.committed()) == 0 {
		select {
		case <-deadline:
			t.Fatal("auto-commit never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Give a stale timer a chance to double-fire.
	time.Sleep(50 * time.Millisecond)

	entries := rec.committed()
	if len(entries) != 1 {
		t.Fatalf("auto-commit fired %d times, want exactly 1", len(entries))
	}
	if entries[0].Amount.Cents != 1000 || entries[0].Note != "" {
		t.Errorf("auto-committed entry = %+v, want 1000 cents without note", entries[0])
	}

	if _, ok := r.Pending(); ok {
		t.Error("resolver should be idle after auto-commit")
	}

	// A note arriving after expiry is a no-op.
	if _, ok := r.ResolveNote("too late"); ok {
		t.Error("ResolveNote succeeded after the entry already auto-committed")
	}
}

func TestResolverSupersedeDiscardsPrevious(t *testing.T) {
	rec := &commitRecorder{}
	r := NewResolver(30*time.Millisecond, rec.commit, nil)

	r.Hold(PendingEntry{Kind: core.Expense, Amount: core.Money{Cents: 1000}, Category: core.CategoryGas})
	r.Hold(PendingEntry{Kind: core.Expense, Amount: core.Money{Cents: 500}, Category: core.CategorySnacks})

	p, ok := r.Pending()
	if !ok {
		t.Fatal("expected a pending entry after second Hold")
	}
	if p.Amount.Cents != 500 || p.Category != core.CategorySnacks {
		t.Errorf("pending = %+v, want the superseding 500/snacks entry", p)
	}

	// Only the second entry may ever be persisted from this pair.
	time.Sleep(150 * time.Millisecond)
	entries := rec.committed()
	if len(entries) != 1 {
		t.Fatalf("committed %d entries, want 1", len(entries))
	}
	if entries[0].Amount.Cents != 500 || entries[0].Category != core.CategorySnacks {
		t.Errorf("committed entry = %+v, want 500/snacks", entries[0])
	}
}

func TestResolveNoteWhileIdle(t *testing.T) {
	r := NewResolver(time.Hour, func(core.LedgerEntry) {}, nil)
	if _, ok := r.ResolveNote("orphan note"); ok {
		t.Error("ResolveNote should report false when nothing is pending")
	}
}

func TestResolverFlush(t *testing.T) {
	rec := &commitRecorder{}
	r := NewResolver(time.Hour, rec.commit, nil)

	r.Hold(PendingEntry{Kind: core.Revenue, Amount: core.Money{Cents: 2500}})
	r.Flush()

	entries := rec.committed()
	if len(entries) != 1 {
		t.Fatalf("flush committed %d entries, want 1", len(entries))
	}
	if entries[0].Amount.Cents != 2500 || entries[0].Note != "" {
		t.Errorf("flushed entry = %+v, want 2500 cents without note", entries[0])
	}

	// Idle flush is a no-op.
	r.Flush()
	if n := len(rec.committed()); n != 1 {
		t.Errorf("second flush committed again, total %d", n)
	}
}
