// Package scheduler keeps one indefinite playback loop running per
// participant. A loop repeatedly instantiates a synth for its phrase,
// primes it to learn the real audio duration, starts it and suspends
// for exactly that duration before re-arming, so consecutive iterations
// neither overlap nor leave gaps.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Scheduler struct {
	mu       sync.Mutex
	loops    map[string]*loop
	gen      uint64
	newSynth Factory
	notation NotationSource
	localId  string
	logger   *slog.Logger
}

// loop is the record for one participant's running playback loop.
// synth holds the live handle of the current iteration, guarded by
// Scheduler.mu, so a stop can silence audio that is already sounding.
type loop struct {
	playerId string
	phraseId string
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	synth    Synth
}

// New returns a scheduler. localId is the host's own connection id,
// used to answer whether the local observer's phrase is playing.
func New(newSynth Factory, notation NotationSource, localId string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		loops:    make(map[string]*loop),
		newSynth: newSynth,
		notation: notation,
		localId:  localId,
		logger:   logger,
	}
}

// Play installs a loop for playerId. Any prior loop for the same player
// is fully halted first, so at most one loop per player is ever live.
func (s *Scheduler) Play(playerId, phraseId string) {
	notation, ok := s.notation(phraseId)
	if !ok {
		s.logger.Warn("unknown phrase", "phrase_id", phraseId, "player_id", playerId)
		return
	}

	s.mu.Lock()
	if prev, ok := s.loops[playerId]; ok {
		s.haltLocked(prev)
	}

	s.gen++
	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{
		playerId: playerId,
		phraseId: phraseId,
		gen:      s.gen,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.loops[playerId] = l
	s.mu.Unlock()

	s.logger.Debug("loop installed", "player_id", playerId, "phrase_id", phraseId, "gen", l.gen)
	go s.run(l, notation)
}

// Stop halts playerId's loop. Unknown players are a no-op; other
// players' loops are never touched.
func (s *Scheduler) Stop(playerId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loops[playerId]
	if !ok {
		return
	}

	s.haltLocked(l)
	delete(s.loops, playerId)
	s.logger.Debug("loop stopped", "player_id", playerId, "gen", l.gen)
}

// Shutdown tears down every loop, e.g. when the host view unmounts.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for playerId, l := range s.loops {
		s.haltLocked(l)
		delete(s.loops, playerId)
	}
}

// Active reports the phrase currently looping for playerId.
func (s *Scheduler) Active(playerId string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.loops[playerId]
	if !ok {
		return "", false
	}

	return l.phraseId, true
}

// LocalActive projects the same state for the host's own id, driving
// its locally-rendered playing indicator.
func (s *Scheduler) LocalActive() (string, bool) {
	return s.Active(s.localId)
}

// haltLocked flips the loop's cancellation signal and silences any
// audio its current iteration already started. Callers hold s.mu.
func (s *Scheduler) haltLocked(l *loop) {
	l.cancel()
	if l.synth != nil {
		l.synth.Stop()
		l.synth = nil
	}
}

func (s *Scheduler) run(l *loop, notation string) {
	for {
		synth := s.newSynth()

		if err := synth.Init(l.ctx, notation); err != nil {
			s.abort(l, err)
			return
		}

		duration, err := synth.Prime(l.ctx)
		if err != nil {
			s.abort(l, err)
			return
		}

		// publish the handle before starting so a concurrent stop can
		// halt the audio; bail if the loop was superseded while priming
		s.mu.Lock()
		if s.loops[l.playerId] != l || l.ctx.Err() != nil {
			s.mu.Unlock()
			synth.Stop()
			return
		}
		l.synth = synth
		s.mu.Unlock()

		if err := synth.Start(l.ctx); err != nil {
			s.abort(l, err)
			return
		}

		select {
		case <-time.After(duration):
		case <-l.ctx.Done():
			return
		}

		// the iteration's audio ran to completion; drop the handle and
		// re-check that this loop is still the installed one
		s.mu.Lock()
		if s.loops[l.playerId] != l || l.ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		l.synth = nil
		s.mu.Unlock()
	}
}

// abort transitions a failed loop back to idle. Failures are logged,
// never retried and never surfaced to remote participants.
func (s *Scheduler) abort(l *loop, err error) {
	s.mu.Lock()
	if s.loops[l.playerId] == l {
		delete(s.loops, l.playerId)
	}
	// a Start failure can leave audio partially sounding on the
	// published handle; silence it before dropping the record
	if l.synth != nil {
		l.synth.Stop()
		l.synth = nil
	}
	s.mu.Unlock()

	if l.ctx.Err() != nil {
		// the loop was halted while the synth call was in flight
		return
	}

	s.logger.Info("playback loop aborted",
		"player_id", l.playerId,
		"phrase_id", l.phraseId,
		"gen", l.gen,
		"error", err,
	)
}
