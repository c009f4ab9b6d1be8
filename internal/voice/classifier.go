package voice

import (
	"strings"

	"fareledger/internal/core"
)

// Driver speech is noisy, so classification is substring containment over
// the whole phrase rather than exact matching: "for my gas fill up" still
// lands on gas. Order matters: the first hit wins.
var categoryRules = []struct {
	keyword  string
	category core.ExpenseCategory
}{
	{"gas", core.CategoryGas},
	{"maintenance", core.CategoryMaintenance},
	{"car wash", core.CategoryCarWash},
	{"snack", core.CategorySnacks},
	{"toll", core.CategoryTolls},
}

// Classify maps free-text category speech to the closed category set.
// Unclassifiable text falls back to CategoryOther.
func Classify(text string) core.ExpenseCategory {
	text = strings.ToLower(text)
	for _, rule := range categoryRules {
		if strings.Contains(text, rule.keyword) {
			return rule.category
		}
	}
	return core.CategoryOther
}
