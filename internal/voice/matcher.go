package voice

import (
	"regexp"
	"strings"

	"fareledger/internal/core"
)

var (
	reRevenueAmount = regexp.MustCompile(`^(?:record|add) revenue\s+(.+?)(?:\s+dollars?)?$`)
	reExpenseAmount = regexp.MustCompile(`^(?:record|add) expense\s+(.+?)(?:\s+dollars?)?\s+for\s+(.+)$`)
	reNote          = regexp.MustCompile(`^add note\s+(.+)$`)

	reEarned = regexp.MustCompile(`how much (?:have i|did i) earn`)
	reSpent  = regexp.MustCompile(`how much (?:have i|did i) spend`)
	reMade   = regexp.MustCompile(`how much (?:have i|did i) make`)
)

type matchFunc func(transcript string) (core.Command, bool)

// Matcher turns one transcript into one Command. The grammar is an ordered
// list of matcher funcs and the first structural match wins; the order is
// part of the contract, not an implementation detail.
type Matcher struct {
	rules []matchFunc
}

func NewMatcher() *Matcher {
	return &Matcher{rules: []matchFunc{
		matchBareRevenue,
		matchBareExpense,
		matchRevenueAmount,
		matchExpenseAmount,
		matchNote,
		matchStatus,
	}}
}

// Match runs the transcript through the grammar. It never returns nil: a
// transcript that matches no rule yields core.Unrecognized.
func (m *Matcher) Match(transcript string) core.Command {
	t := strings.ToLower(strings.TrimSpace(transcript))
	for _, rule := range m.rules {
		if cmd, ok := rule(t); ok {
			return cmd
		}
	}
	return core.Unrecognized{}
}

func matchBareRevenue(t string) (core.Command, bool) {
	if t == "record revenue" || t == "add revenue" {
		return core.NeedAmount{Kind: core.Revenue}, true
	}
	return nil, false
}

func matchBareExpense(t string) (core.Command, bool) {
	if t == "record expense" || t == "add expense" {
		return core.NeedAmount{Kind: core.Expense}, true
	}
	return nil, false
}

func matchRevenueAmount(t string) (core.Command, bool) {
	m := reRevenueAmount.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	amount, err := ParseAmount(m[1])
	if err != nil {
		return core.BadAmount{Kind: core.Revenue, Token: m[1]}, true
	}
	return core.RecordRevenue{Amount: amount}, true
}

func matchExpenseAmount(t string) (core.Command, bool) {
	m := reExpenseAmount.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	amount, err := ParseAmount(m[1])
	if err != nil {
		return core.BadAmount{Kind: core.Expense, Token: m[1]}, true
	}
	return core.RecordExpense{Amount: amount, Category: Classify(m[2])}, true
}

func matchNote(t string) (core.Command, bool) {
	m := reNote.FindStringSubmatch(t)
	if m == nil {
		return nil, false
	}
	return core.AttachNote{Text: m[1]}, true
}

// matchStatus uses keyword containment, not full-sentence grammar. The
// checks run in declared order, so "profit" anywhere in the transcript only
// wins when neither the revenue nor the expenses check hit first.
func matchStatus(t string) (core.Command, bool) {
	switch {
	case strings.Contains(t, "total revenue") || reEarned.MatchString(t):
		return core.QueryStatus{Kind: core.StatusRevenue}, true
	case strings.Contains(t, "total expenses") || reSpent.MatchString(t):
		return core.QueryStatus{Kind: core.StatusExpenses}, true
	case strings.Contains(t, "profit") || reMade.MatchString(t):
		return core.QueryStatus{Kind: core.StatusProfit}, true
	}
	return nil, false
}
