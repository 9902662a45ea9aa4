package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamspace/server/internal/phrase"
)

// fakeEngine hands out fakeSynth instances and records their lifecycle
// events ("start:N", "stop:N") in order.
type fakeEngine struct {
	mu       sync.Mutex
	seq      int
	events   []string
	duration time.Duration
	initErr  error
	primeErr error
	startErr error
	started  chan int
}

func newFakeEngine(duration time.Duration) *fakeEngine {
	return &fakeEngine{
		duration: duration,
		started:  make(chan int, 64),
	}
}

func (e *fakeEngine) factory() Synth {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	return &fakeSynth{engine: e, id: e.seq}
}

func (e *fakeEngine) record(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *fakeEngine) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

func (e *fakeEngine) waitStart(t *testing.T) int {
	t.Helper()
	select {
	case id := <-e.started:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a synth start")
		return 0
	}
}

type fakeSynth struct {
	engine *fakeEngine
	id     int
}

func (f *fakeSynth) Init(context.Context, string) error {
	return f.engine.initErr
}

func (f *fakeSynth) Prime(context.Context) (time.Duration, error) {
	return f.engine.duration, f.engine.primeErr
}

func (f *fakeSynth) Start(context.Context) error {
	if f.engine.startErr != nil {
		return f.engine.startErr
	}

	f.engine.record(fmt.Sprintf("start:%d", f.id))
	f.engine.started <- f.id
	return nil
}

func (f *fakeSynth) Stop() {
	f.engine.record(fmt.Sprintf("stop:%d", f.id))
}

func notationSource(phraseId string) (string, bool) {
	return phrase.Notation(phraseId)
}

func newTestScheduler(e *fakeEngine) *Scheduler {
	return New(e.factory, notationSource, "host-1", slog.Default())
}

func TestLoopRearmsAfterEachDuration(t *testing.T) {
	engine := newFakeEngine(5 * time.Millisecond)
	s := newTestScheduler(engine)
	defer s.Shutdown()

	s.Play("ana-1", "sentence-1")

	// three consecutive iterations prove the loop re-arms itself
	first := engine.waitStart(t)
	engine.waitStart(t)
	engine.waitStart(t)
	assert.Greater(t, first, 0)

	phraseId, ok := s.Active("ana-1")
	assert.True(t, ok)
	assert.Equal(t, "sentence-1", phraseId)

	s.Stop("ana-1")
	_, ok = s.Active("ana-1")
	assert.False(t, ok)

	// no further iterations after the stop settles
	time.Sleep(30 * time.Millisecond)
	before := len(engine.snapshot())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, len(engine.snapshot()))
}

func TestReplacePlayHaltsPreviousLoopFirst(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	s := newTestScheduler(engine)
	defer s.Shutdown()

	s.Play("ana-1", "sentence-1")
	firstId := engine.waitStart(t)

	s.Play("ana-1", "parallel-period")
	secondId := engine.waitStart(t)

	phraseId, ok := s.Active("ana-1")
	require.True(t, ok)
	assert.Equal(t, "parallel-period", phraseId)

	// the first synth was stopped before the second started
	events := engine.snapshot()
	stopIdx, startIdx := -1, -1
	for i, ev := range events {
		switch ev {
		case fmt.Sprintf("stop:%d", firstId):
			stopIdx = i
		case fmt.Sprintf("start:%d", secondId):
			startIdx = i
		}
	}
	require.GreaterOrEqual(t, stopIdx, 0, "first synth was never stopped")
	require.GreaterOrEqual(t, startIdx, 0)
	assert.Less(t, stopIdx, startIdx, "second loop started before the first was halted")
}

func TestStopIsPerPlayer(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	s := newTestScheduler(engine)
	defer s.Shutdown()

	s.Play("ana-1", "sentence-1")
	engine.waitStart(t)
	s.Play("ben-1", "parallel-period")
	engine.waitStart(t)

	s.Stop("ana-1")

	_, ok := s.Active("ana-1")
	assert.False(t, ok)

	phraseId, ok := s.Active("ben-1")
	assert.True(t, ok)
	assert.Equal(t, "parallel-period", phraseId)

	// stopping an unknown player is a no-op
	s.Stop("ghost")
	_, ok = s.Active("ben-1")
	assert.True(t, ok)
}

func TestSynthFailureAbortsToIdle(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	engine.primeErr = errors.New("sample bank missing")
	s := newTestScheduler(engine)
	defer s.Shutdown()

	s.Play("ana-1", "sentence-1")

	require.Eventually(t, func() bool {
		_, ok := s.Active("ana-1")
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	// nothing ever started
	for _, ev := range engine.snapshot() {
		assert.NotContains(t, ev, "start")
	}

	// a later play for the same player works again once the engine recovers
	engine.primeErr = nil
	s.Play("ana-1", "sentence-1")
	engine.waitStart(t)
}

func TestStartFailureSilencesSynth(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	engine.startErr = errors.New("audio device lost")
	s := newTestScheduler(engine)
	defer s.Shutdown()

	s.Play("ana-1", "sentence-1")

	require.Eventually(t, func() bool {
		_, ok := s.Active("ana-1")
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	// the handle had already been published when Start failed; the
	// abort must stop it, not just forget it
	assert.Contains(t, engine.snapshot(), "stop:1")
}

func TestUnknownPhraseIsIgnored(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	s := newTestScheduler(engine)
	defer s.Shutdown()

	s.Play("ana-1", "no-such-phrase")

	_, ok := s.Active("ana-1")
	assert.False(t, ok)
	assert.Empty(t, engine.snapshot())
}

func TestShutdownHaltsEverything(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	s := newTestScheduler(engine)

	s.Play("ana-1", "sentence-1")
	engine.waitStart(t)
	s.Play("ben-1", "parallel-period")
	engine.waitStart(t)

	s.Shutdown()

	_, ok := s.Active("ana-1")
	assert.False(t, ok)
	_, ok = s.Active("ben-1")
	assert.False(t, ok)

	stops := 0
	for _, ev := range engine.snapshot() {
		if ev == "stop:1" || ev == "stop:2" {
			stops++
		}
	}
	assert.Equal(t, 2, stops)
}

func TestLocalActiveProjection(t *testing.T) {
	engine := newFakeEngine(time.Hour)
	s := newTestScheduler(engine)
	defer s.Shutdown()

	_, ok := s.LocalActive()
	assert.False(t, ok)

	// the host playing its own phrase is just another participant key
	s.Play("host-1", "italian-6th")
	engine.waitStart(t)

	phraseId, ok := s.LocalActive()
	assert.True(t, ok)
	assert.Equal(t, "italian-6th", phraseId)

	s.Stop("host-1")
	_, ok = s.LocalActive()
	assert.False(t, ok)
}
