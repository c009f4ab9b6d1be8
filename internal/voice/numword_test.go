package voice

import (
	"errors"
	"testing"

	"fareledger/internal/core"
)

func TestParseNumberWord(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    int64
		wantErr bool
	}{
		{"zero", "zero", 0, false},
		{"single digit", "seven", 7, false},
		{"teen", "fifteen", 15, false},
		{"tens", "forty", 40, false},
		{"tens plus ones", "twenty five", 25, false},
		{"tens plus ones upper bound", "ninety nine", 99, false},
		{"uppercase and padding", "  Twenty Five ", 25, false},
		{"ones then tens rejected", "five twenty", 0, true},
		{"teen as second word rejected", "twenty fifteen", 0, true},
		{"hundreds unsupported", "one hundred", 0, true},
		{"three words", "twenty five dollars", 0, true},
		{"garbage", "banana", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumberWord(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrNotANumber) {
					t.Fatalf("ParseNumberWord(%q) error = %v, want ErrNotANumber", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNumberWord(%q) unexpected error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseNumberWord(%q) = %d, want %d", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseNumberWordTensOnesGrid(t *testing.T) {
	tensWords := map[string]int64{
		"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
		"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	}
	onesWords := []struct {
		word string
		val  int64
	}{
		{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
		{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9},
	}

	for tWord, tVal := range tensWords {
		for _, o := range onesWords {
			token := tWord + " " + o.word
			got, err := ParseNumberWord(token)
			if err != nil {
				t.Fatalf("ParseNumberWord(%q) unexpected error: %v", token, err)
			}
			if got != tVal+o.val {
				t.Errorf("ParseNumberWord(%q) = %d, want %d", token, got, tVal+o.val)
			}
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantCents int64
		wantErr   bool
	}{
		{"integer numeral", "20", 2000, false},
		{"decimal numeral", "12.50", 1250, false},
		{"comma decimal", "12,50", 1250, false},
		{"word number", "twenty", 2000, false},
		{"two word number", "twenty five", 2500, false},
		{"numeral zero is final", "0", 0, true},
		{"negative numeral is final", "-5", 0, true},
		{"word zero rejected", "zero", 0, true},
		{"not a number", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %v", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.token, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseAmount(%q) = %d cents, want %d", tt.token, got.Cents, tt.wantCents)
			}
		})
	}
}

// A numeral-shaped token never falls back to word lookup: "0" must fail as
// an invalid amount even though "zero" exists in the vocabulary.
func TestParseAmountNumeralIsFinal(t *testing.T) {
	_, err := ParseAmount("0")
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("ParseAmount(\"0\") error = %v, want ErrInvalidAmount", err)
	}
	_, err = ParseAmount("-5")
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("ParseAmount(\"-5\") error = %v, want ErrInvalidAmount", err)
	}
}
