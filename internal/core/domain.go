package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Revenue EntryKind = "revenue"
	Expense EntryKind = "expense"
)

const (
	CategoryGas         ExpenseCategory = "gas"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryCarWash     ExpenseCategory = "car_wash"
	CategorySnacks      ExpenseCategory = "snacks"
	CategoryTolls       ExpenseCategory = "tolls"
	CategoryOther       ExpenseCategory = "other"
)

type (
	EntryKind string

	ExpenseCategory string

	// LedgerEntry is one committed revenue or expense record. Entries are
	// append-only: ID and CreatedAt are assigned at construction and the
	// store never updates or deletes a committed entry.
	LedgerEntry struct {
		ID        string
		Kind      EntryKind
		Amount    Money
		Category  ExpenseCategory // expenses only, empty for revenue
		Note      string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid entry kind")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
)

func (k EntryKind) Valid() bool {
	return k == Revenue || k == Expense
}

// Spoken returns the kind as it should be vocalized.
func (k EntryKind) Spoken() string {
	return string(k)
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryGas, CategoryMaintenance, CategoryCarWash, CategorySnacks, CategoryTolls, CategoryOther:
		return true
	}
	return false
}

// Spoken returns the category as it should be vocalized.
func (c ExpenseCategory) Spoken() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// NewRevenue builds a committed-ready revenue entry with a fresh ID.
func NewRevenue(amount Money, note string) LedgerEntry {
	return LedgerEntry{
		ID:        uuid.NewString(),
		Kind:      Revenue,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now(),
	}
}

// NewExpense builds a committed-ready expense entry with a fresh ID.
// An invalid category falls back to CategoryOther.
func NewExpense(amount Money, category ExpenseCategory, note string) LedgerEntry {
	if !category.Valid() {
		category = CategoryOther
	}
	return LedgerEntry{
		ID:        uuid.NewString(),
		Kind:      Expense,
		Amount:    amount,
		Category:  category,
		Note:      note,
		CreatedAt: time.Now(),
	}
}

func (e LedgerEntry) Validate() error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Kind == Expense && !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}
