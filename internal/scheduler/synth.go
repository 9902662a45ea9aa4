package scheduler

import (
	"context"
	"time"
)

// Synth is one synthesis instance for one loop iteration. Prime reports
// the authoritative playback duration of the rendered audio; the loop
// waits exactly that long before re-arming. Stop halts audio that is
// already sounding and must be safe to call more than once.
type Synth interface {
	Init(ctx context.Context, notation string) error
	Prime(ctx context.Context) (time.Duration, error)
	Start(ctx context.Context) error
	Stop()
}

// Factory produces a fresh Synth for each loop iteration.
type Factory func() Synth

// NotationSource resolves a phrase id to its notation data.
type NotationSource func(phraseId string) (string, bool)
