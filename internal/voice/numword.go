// Package voice implements the transcript interpreter: amount parsing,
// category classification, command matching, pending-entry resolution and
// the orchestrating interpreter.
package voice

import (
	"errors"
	"regexp"
	"strings"

	"fareledger/internal/core"
)

// ErrNotANumber reports a token that is neither a numeral nor a known
// number word.
var ErrNotANumber = errors.New("not a number")

var numeralShape = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?$`)

var ones = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseNumberWord resolves a spoken number token to its integer value.
// Single words come straight from the ones/tens vocabulary; two words are
// accepted only as a tens word followed by a ones digit ("twenty five").
// There is no support for hundreds, negatives or fractions.
func ParseNumberWord(token string) (int64, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(token)))
	switch len(words) {
	case 1:
		if v, ok := ones[words[0]]; ok {
			return v, nil
		}
		if v, ok := tens[words[0]]; ok {
			return v, nil
		}
	case 2:
		t, ok := tens[words[0]]
		if !ok {
			return 0, ErrNotANumber
		}
		o, ok := ones[words[1]]
		if !ok || o > 9 {
			return 0, ErrNotANumber
		}
		return t + o, nil
	}
	return 0, ErrNotANumber
}

// ParseAmount turns a spoken amount token into money. A numeral-shaped
// token is final: it resolves through decimal parsing and a non-positive
// value is core.ErrInvalidAmount, with no word-lookup fallback. Everything
// else goes through the number-word vocabulary, where whole dollars are
// assumed.
func ParseAmount(token string) (core.Money, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	if numeralShape.MatchString(token) {
		cents, err := core.ParseDecimalToCents(token)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Cents: cents}, nil
	}
	n, err := ParseNumberWord(token)
	if err != nil {
		return core.Money{}, err
	}
	if n <= 0 {
		return core.Money{}, core.ErrInvalidAmount
	}
	return core.Money{Cents: n * 100}, nil
}
