package core

const (
	StatusRevenue  StatusKind = "revenue"
	StatusExpenses StatusKind = "expenses"
	StatusProfit   StatusKind = "profit"
)

// StatusKind selects which aggregate a status query reads.
type StatusKind string

// Command is the structured result of matching one transcript. Exactly one
// concrete command is produced per transcript; commands are never persisted.
type Command interface {
	isCommand()
}

type (
	// RecordRevenue captures an amount for a revenue entry. The note is
	// filled in later by the pending-entry resolver, never by the matcher.
	RecordRevenue struct {
		Amount Money
	}

	// RecordExpense captures an amount and category for an expense entry.
	RecordExpense struct {
		Amount   Money
		Category ExpenseCategory
	}

	// AttachNote carries the free text that resolves a pending entry.
	AttachNote struct {
		Text string
	}

	// QueryStatus is a read-only request for a spoken aggregate.
	QueryStatus struct {
		Kind StatusKind
	}

	// NeedAmount is a bare-intent prompt ("record expense" with no amount):
	// the caller should ask for the missing amount. No state changes.
	NeedAmount struct {
		Kind EntryKind
	}

	// BadAmount marks a structurally valid command whose amount token did
	// not parse to a positive number. No state changes.
	BadAmount struct {
		Kind  EntryKind
		Token string
	}

	// Unrecognized matches no grammar rule.
	Unrecognized struct{}
)

func (RecordRevenue) isCommand() {}
func (RecordExpense) isCommand() {}
func (AttachNote) isCommand()    {}
func (QueryStatus) isCommand()   {}
func (NeedAmount) isCommand()    {}
func (BadAmount) isCommand()     {}
func (Unrecognized) isCommand()  {}
