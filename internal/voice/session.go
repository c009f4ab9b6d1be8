package voice

import (
	"context"
	"log/slog"

	"fareledger/internal/log"
)

// Speaker vocalizes a response. Implementations are fire-and-forget and a
// new call interrupts any in-progress utterance.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Session binds a speech-recognition event stream to the interpreter. The
// recognition layer calls OnResult exactly once per completed utterance
// with an already trimmed, lowercased transcript.
type Session struct {
	interp  *Interpreter
	speaker Speaker
	logger  *slog.Logger
}

func NewSession(interp *Interpreter, speaker Speaker, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{interp: interp, speaker: speaker, logger: logger}
}

// OnResult feeds one finalized transcript through the interpreter and
// speaks whatever came back.
func (s *Session) OnResult(ctx context.Context, transcript string) {
	res, err := s.interp.Handle(ctx, transcript)
	if err != nil {
		s.logger.ErrorContext(ctx, "transcript handling failed",
			log.FieldError, err, log.FieldTranscript, transcript)
	}
	if res.Spoken == "" {
		return
	}
	if err := s.speaker.Speak(ctx, res.Spoken); err != nil {
		s.logger.ErrorContext(ctx, "speak failed", log.FieldError, err)
	}
}

// OnListening records listening-state changes from the recognition layer.
func (s *Session) OnListening(listening bool) {
	s.logger.Debug("listening state changed", "listening", listening)
}

// OnError surfaces a recognition failure to the user. It is non-fatal and
// leaves any pending entry untouched.
func (s *Session) OnError(ctx context.Context, message string) {
	s.logger.WarnContext(ctx, "recognition error", "message", message)
	if err := s.speaker.Speak(ctx, "sorry, i didn't catch that."); err != nil {
		s.logger.ErrorContext(ctx, "speak failed", log.FieldError, err)
	}
}
