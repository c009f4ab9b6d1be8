package voice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fareledger/internal/core"
	"fareledger/internal/ledger"
	"fareledger/internal/log"
)

// DefaultNoteWindow is how long the interpreter waits for a follow-up note
// before auto-committing a captured amount.
const DefaultNoteWindow = 3 * time.Second

// Result is what one transcript produced: the text to speak back and, when
// this transcript caused a commit, the committed entry.
type Result struct {
	Spoken    string
	Committed *core.LedgerEntry
}

// Interpreter orchestrates matcher, resolver and ledger store. Transcripts
// are expected one at a time, already finalized; identical transcripts
// produce independent commits; deduplication is the caller's concern.
type Interpreter struct {
	matcher  *Matcher
	resolver *Resolver
	store    ledger.Store
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	onCommit func(core.LedgerEntry)
}

// NewInterpreter wires an interpreter to the given store. The wait window
// bounds how long an amount waits for a note before auto-commit.
func NewInterpreter(store ledger.Store, window time.Duration, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	if window <= 0 {
		window = DefaultNoteWindow
	}
	i := &Interpreter{
		matcher: NewMatcher(),
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	i.resolver = NewResolver(window, i.autoCommit, logger)
	return i
}

// Resolver exposes the pending-entry state machine, mainly for callers that
// need to inspect or flush it.
func (i *Interpreter) Resolver() *Resolver {
	return i.resolver
}

// OnCommit registers fn to run after every successful commit, whichever
// path produced it (note, wait-window timer, shutdown flush). At most one
// hook is kept; nil clears it.
func (i *Interpreter) OnCommit(fn func(core.LedgerEntry)) {
	i.mu.Lock()
	i.onCommit = fn
	i.mu.Unlock()
}

func (i *Interpreter) notifyCommit(entry core.LedgerEntry) {
	i.mu.Lock()
	fn := i.onCommit
	i.mu.Unlock()
	if fn != nil {
		fn(entry)
	}
}

// Close flushes any pending entry so it is not lost on shutdown.
func (i *Interpreter) Close() {
	i.resolver.Flush()
}

// Handle interprets one transcript. Every outcome carries spoken feedback;
// the error is non-nil only when the ledger store failed, and even then the
// spoken text degrades gracefully.
func (i *Interpreter) Handle(ctx context.Context, transcript string) (Result, error) {
	cmd := i.matcher.Match(transcript)

	switch c := cmd.(type) {
	case core.NeedAmount:
		if c.Kind == core.Expense {
			return Result{Spoken: "how much was the expense, and what was it for?"}, nil
		}
		return Result{Spoken: "how much revenue should i record?"}, nil

	case core.BadAmount:
		i.logger.InfoContext(ctx, "amount not understood",
			log.FieldEntryKind, c.Kind, "token", c.Token)
		return Result{Spoken: "sorry, i couldn't understand that amount. try something like record expense 20 for gas."}, nil

	case core.RecordRevenue:
		i.resolver.Hold(PendingEntry{Kind: core.Revenue, Amount: c.Amount})
		return Result{Spoken: fmt.Sprintf("got it, %s revenue. say add note to attach a note, or i'll save it as is.", c.Amount.Spoken())}, nil

	case core.RecordExpense:
		i.resolver.Hold(PendingEntry{Kind: core.Expense, Amount: c.Amount, Category: c.Category})
		return Result{Spoken: fmt.Sprintf("got it, %s for %s. say add note to attach a note, or i'll save it as is.", c.Amount.Spoken(), c.Category.Spoken())}, nil

	case core.AttachNote:
		return i.attachNote(ctx, c.Text)

	case core.QueryStatus:
		return i.status(ctx, c.Kind)

	default:
		return Result{Spoken: "sorry, i didn't get that. try record revenue 20, or record expense 15 for gas."}, nil
	}
}

func (i *Interpreter) attachNote(ctx context.Context, text string) (Result, error) {
	entry, ok := i.resolver.ResolveNote(text)
	if !ok {
		return Result{Spoken: "there's nothing to attach a note to right now."}, nil
	}
	if err := i.store.Append(ctx, entry); err != nil {
		i.logger.ErrorContext(ctx, "failed to save entry",
			log.FieldError, err, log.FieldEntryID, entry.ID, log.FieldEntryKind, entry.Kind)
		return Result{Spoken: "sorry, i couldn't save that entry."}, fmt.Errorf("append entry: %w", err)
	}
	i.logger.InfoContext(ctx, "entry committed with note",
		log.FieldEntryID, entry.ID,
		log.FieldEntryKind, entry.Kind,
		log.FieldAmountCents, entry.Amount.Cents,
		log.FieldCategory, entry.Category)
	i.notifyCommit(entry)
	return Result{
		Spoken:    fmt.Sprintf("saved %s of %s with your note.", entry.Kind.Spoken(), entry.Amount.Spoken()),
		Committed: &entry,
	}, nil
}

func (i *Interpreter) status(ctx context.Context, kind core.StatusKind) (Result, error) {
	summary, err := i.Summary(ctx, i.now())
	if err != nil {
		i.logger.ErrorContext(ctx, "failed to read totals", log.FieldError, err, "status_kind", kind)
		return Result{Spoken: "sorry, i couldn't look that up right now."}, err
	}

	switch kind {
	case core.StatusRevenue:
		return Result{Spoken: fmt.Sprintf("you've earned %s today.", summary.Revenue.Spoken())}, nil
	case core.StatusExpenses:
		return Result{Spoken: fmt.Sprintf("you've spent %s today.", summary.Expenses.Spoken())}, nil
	default:
		profit := summary.Profit()
		if profit.Cents < 0 {
			return Result{Spoken: fmt.Sprintf("you're down %s today.", profit.Spoken())}, nil
		}
		return Result{Spoken: fmt.Sprintf("you've made %s in profit today.", profit.Spoken())}, nil
	}
}

// Summary reads the aggregates for the day containing t from the store.
func (i *Interpreter) Summary(ctx context.Context, t time.Time) (core.DaySummary, error) {
	from, to := core.DayRange(t)
	revenue, err := i.store.SumRange(ctx, core.Revenue, from, to)
	if err != nil {
		return core.DaySummary{}, fmt.Errorf("sum revenue: %w", err)
	}
	expenses, err := i.store.SumRange(ctx, core.Expense, from, to)
	if err != nil {
		return core.DaySummary{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.DaySummary{Date: from, Revenue: revenue, Expenses: expenses}, nil
}

// autoCommit persists an entry the resolver committed on timeout. The timer
// fires outside any request, so there is no caller to report errors to;
// they are logged and the entry is dropped.
func (i *Interpreter) autoCommit(entry core.LedgerEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.store.Append(ctx, entry); err != nil {
		i.logger.Error("failed to auto-commit entry",
			log.FieldError, err, log.FieldEntryID, entry.ID, log.FieldEntryKind, entry.Kind)
		return
	}
	i.notifyCommit(entry)
}
