package memory

import (
	"context"
	"testing"
	"time"

	"fareledger/internal/core"
)

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	entries := []core.LedgerEntry{
		core.NewRevenue(core.Money{Cents: 1000}, "first"),
		core.NewExpense(core.Money{Cents: 500}, core.CategoryGas, ""),
		core.NewRevenue(core.Money{Cents: 2000}, "second"),
	}
	for _, e := range entries {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	revenue, err := s.List(ctx, core.Revenue)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(revenue) != 2 {
		t.Fatalf("listed %d revenue entries, want 2", len(revenue))
	}
	// Insertion order is part of the contract.
	if revenue[0].Note != "first" || revenue[1].Note != "second" {
		t.Errorf("revenue order = %q, %q", revenue[0].Note, revenue[1].Note)
	}

	expenses, err := s.List(ctx, core.Expense)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Amount.Cents != 500 {
		t.Errorf("expenses = %+v, want one 500 cent entry", expenses)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	bad := core.LedgerEntry{Kind: core.Revenue, Amount: core.Money{Cents: 0}}
	if err := s.Append(context.Background(), bad); err == nil {
		t.Error("Append accepted a zero amount")
	}
	if s.Len() != 0 {
		t.Errorf("store holds %d entries after rejected append", s.Len())
	}
}

func TestSumRange(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	mk := func(kind core.EntryKind, cents int64, at time.Time) core.LedgerEntry {
		var e core.LedgerEntry
		if kind == core.Expense {
			e = core.NewExpense(core.Money{Cents: cents}, core.CategoryGas, "")
		} else {
			e = core.NewRevenue(core.Money{Cents: cents}, "")
		}
		e.CreatedAt = at
		return e
	}

	seeds := []core.LedgerEntry{
		mk(core.Revenue, 1000, base),
		mk(core.Revenue, 2000, base.Add(time.Hour)),
		mk(core.Revenue, 4000, base.AddDate(0, 0, -1)), // yesterday, excluded
		mk(core.Expense, 300, base),
	}
	for _, e := range seeds {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	from, to := core.DayRange(base)
	got, err := s.SumRange(ctx, core.Revenue, from, to)
	if err != nil {
		t.Fatalf("SumRange: %v", err)
	}
	if got.Cents != 3000 {
		t.Errorf("revenue sum = %d, want 3000", got.Cents)
	}

	got, err = s.SumRange(ctx, core.Expense, from, to)
	if err != nil {
		t.Fatalf("SumRange: %v", err)
	}
	if got.Cents != 300 {
		t.Errorf("expense sum = %d, want 300", got.Cents)
	}

	// The range is half-open: an entry exactly at the upper bound is out.
	edge := mk(core.Revenue, 700, to)
	if err := s.Append(ctx, edge); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err = s.SumRange(ctx, core.Revenue, from, to)
	if err != nil {
		t.Fatalf("SumRange: %v", err)
	}
	if got.Cents != 3000 {
		t.Errorf("revenue sum after edge entry = %d, want 3000", got.Cents)
	}
}
