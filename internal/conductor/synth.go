package conductor

import (
	"context"
	"log/slog"
	"time"

	"github.com/jamspace/server/internal/phrase"
	"github.com/jamspace/server/internal/scheduler"
)

// stubSynth stands in when no real audio engine is wired up. Its Prime
// derives the playback duration from the ABC body, so loop timing still
// tracks the notation's actual length.
type stubSynth struct {
	notation string
	logger   *slog.Logger
}

// NewStubSynthFactory returns the default synth factory for cmd/conductor.
func NewStubSynthFactory(logger *slog.Logger) scheduler.Factory {
	return func() scheduler.Synth {
		return &stubSynth{logger: logger}
	}
}

func (s *stubSynth) Init(ctx context.Context, notation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.notation = notation
	return nil
}

func (s *stubSynth) Prime(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return phrase.EstimateDuration(s.notation), nil
}

func (s *stubSynth) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("playing", "duration", phrase.EstimateDuration(s.notation))
	return nil
}

func (s *stubSynth) Stop() {}
