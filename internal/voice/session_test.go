package voice

import (
	"context"
	"strings"
	"testing"
	"time"

	"fareledger/internal/ledger/memory"
)

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.spoken = append(f.spoken, text)
	return nil
}

func TestSessionOnResult(t *testing.T) {
	store := memory.New()
	interp := NewInterpreter(store, time.Hour, nil)
	t.Cleanup(interp.Close)
	speaker := &fakeSpeaker{}
	sess := NewSession(interp, speaker, nil)

	sess.OnResult(context.Background(), "record revenue 20")

	if len(speaker.spoken) != 1 {
		t.Fatalf("spoke %d times, want 1", len(speaker.spoken))
	}
	if !strings.Contains(speaker.spoken[0], "20 dollars") {
		t.Errorf("spoken = %q, want the amount echoed back", speaker.spoken[0])
	}
}

func TestSessionOnError(t *testing.T) {
	store := memory.New()
	interp := NewInterpreter(store, time.Hour, nil)
	t.Cleanup(interp.Close)
	speaker := &fakeSpeaker{}
	sess := NewSession(interp, speaker, nil)

	// A recognition failure is surfaced but leaves pending state alone.
	sess.OnResult(context.Background(), "record expense 10 for gas")
	sess.OnError(context.Background(), "microphone unavailable")

	if _, ok := interp.Resolver().Pending(); !ok {
		t.Error("recognition error cleared the pending entry")
	}
	last := speaker.spoken[len(speaker.spoken)-1]
	if !strings.Contains(last, "didn't catch") {
		t.Errorf("spoken = %q, want the apology phrase", last)
	}
}
