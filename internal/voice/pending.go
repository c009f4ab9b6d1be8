package voice

import (
	"log/slog"
	"sync"
	"time"

	"fareledger/internal/core"
	"fareledger/internal/log"
)

// PendingEntry is an amount (and category, for expenses) captured from one
// utterance and held in memory awaiting an optional note.
type PendingEntry struct {
	Kind      core.EntryKind
	Amount    core.Money
	Category  core.ExpenseCategory
	CreatedAt time.Time
}

func (p PendingEntry) entry(note string) core.LedgerEntry {
	if p.Kind == core.Expense {
		return core.NewExpense(p.Amount, p.Category, note)
	}
	return core.NewRevenue(p.Amount, note)
}

// CommitFunc persists an auto-committed entry when the wait window expires.
type CommitFunc func(entry core.LedgerEntry)

// Resolver is the two-state machine linking an amount utterance to an
// optional follow-up note. At most one entry is pending at a time; a new
// amount replaces it outright and the superseded entry is discarded without
// being persisted (last-write-wins, a documented lossy behavior).
//
// All access is serialized by the mutex. Transcript processing is already
// sequential, but the wait-window timer fires on its own goroutine.
type Resolver struct {
	mu      sync.Mutex
	window  time.Duration
	commit  CommitFunc
	logger  *slog.Logger
	pending *PendingEntry
	timer   *time.Timer
	gen     uint64 // bumped on every hold/resolve so a stale timer can never commit
}

// NewResolver builds a resolver that auto-commits through commit when no
// note arrives within window.
func NewResolver(window time.Duration, commit CommitFunc, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{window: window, commit: commit, logger: logger}
}

// Hold parks a new pending entry and (re)starts the wait-window timer.
// Any previously pending entry is dropped silently.
func (r *Resolver) Hold(p PendingEntry) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != nil {
		r.logger.Info("replacing pending entry",
			log.FieldEntryKind, r.pending.Kind,
			log.FieldAmountCents, r.pending.Amount.Cents)
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.pending = &p
	r.timer = time.AfterFunc(r.window, func() { r.expire(gen) })
}

// ResolveNote combines the pending entry with note text and returns it for
// the caller to persist. The second value is false when nothing is pending,
// which is a no-op by contract.
func (r *Resolver) ResolveNote(text string) (core.LedgerEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == nil {
		return core.LedgerEntry{}, false
	}
	entry := r.pending.entry(text)
	r.clearLocked()
	return entry, true
}

// Pending returns a copy of the currently pending entry, if any.
func (r *Resolver) Pending() (PendingEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return PendingEntry{}, false
	}
	return *r.pending, true
}

// Flush commits any pending entry immediately, without a note. Used on
// shutdown so a captured amount is not lost with the process.
func (r *Resolver) Flush() {
	r.mu.Lock()
	if r.pending == nil {
		r.mu.Unlock()
		return
	}
	entry := r.pending.entry("")
	r.clearLocked()
	r.mu.Unlock()

	r.commit(entry)
}

// expire is the wait-window timer callback: commit without a note, but only
// if this timer still owns the pending slot.
func (r *Resolver) expire(gen uint64) {
	r.mu.Lock()
	if gen != r.gen || r.pending == nil {
		r.mu.Unlock()
		return
	}
	entry := r.pending.entry("")
	r.clearLocked()
	r.mu.Unlock()

	r.logger.Info("pending entry auto-committed",
		log.FieldEntryKind, entry.Kind,
		log.FieldAmountCents, entry.Amount.Cents)
	r.commit(entry)
}

func (r *Resolver) clearLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = nil
	r.gen++
}
