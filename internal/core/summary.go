package core

import "time"

// DaySummary holds the aggregates a status query speaks back for one day.
type DaySummary struct {
	Date     time.Time
	Revenue  Money
	Expenses Money
}

// Profit is revenue minus expenses; may be negative.
func (s DaySummary) Profit() Money {
	return Money{Cents: s.Revenue.Cents - s.Expenses.Cents}
}

// DayRange returns the half-open interval [midnight, next midnight) for the
// day containing t, in t's location.
func DayRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}
