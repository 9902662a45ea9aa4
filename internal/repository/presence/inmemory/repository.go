package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/jamspace/server/internal/repository/presence"
)

// repo is an in-memory presence store used in tests. It honors TTLs by
// dropping entries lazily on read.
type repo struct {
	mu      sync.RWMutex
	rooms   map[string]entry[string]
	players map[string]entry[presence.Player]
	rosters map[string]entry[map[string]struct{}]
	ttl     time.Duration
	now     func() time.Time
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func NewRepo(ttl time.Duration) *repo {
	return &repo{
		rooms:   make(map[string]entry[string]),
		players: make(map[string]entry[presence.Player]),
		rosters: make(map[string]entry[map[string]struct{}]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock replaces the time source, letting tests drive expiry.
func (r *repo) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *repo) SetRoom(_ context.Context, code, hostId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.rooms[code]; ok && r.now().Before(e.expiresAt) {
		return presence.ErrRoomCodeTaken
	}

	r.rooms[code] = entry[string]{value: hostId, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *repo) GetRoomHost(_ context.Context, code string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rooms[code]
	if !ok || !r.now().Before(e.expiresAt) {
		return "", presence.ErrRoomNotFound
	}

	return e.value, nil
}

func (r *repo) SetPlayer(_ context.Context, params *presence.SetPlayerParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[params.PlayerId] = entry[presence.Player]{
		value: presence.Player{
			Id:       params.PlayerId,
			RoomCode: params.RoomCode,
			Name:     params.Name,
			Role:     params.Role,
		},
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *repo) GetPlayer(_ context.Context, playerId string) (presence.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.players[playerId]
	if !ok || !r.now().Before(e.expiresAt) {
		return presence.Player{}, presence.ErrPlayerNotFound
	}

	return e.value, nil
}

func (r *repo) RemovePlayer(_ context.Context, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerId]; !ok {
		return presence.ErrPlayerNotFound
	}

	delete(r.players, playerId)
	return nil
}

func (r *repo) AddToRoster(_ context.Context, code, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rosters[code]
	if !ok || !r.now().Before(e.expiresAt) {
		e = entry[map[string]struct{}]{value: make(map[string]struct{})}
	}

	e.value[playerId] = struct{}{}
	// mutation re-applies the TTL, matching the redis adapter
	e.expiresAt = r.now().Add(r.ttl)
	r.rosters[code] = e
	return nil
}

func (r *repo) RemoveFromRoster(_ context.Context, code, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.rosters[code]; ok {
		delete(e.value, playerId)
	}
	return nil
}

func (r *repo) GetRosterIds(_ context.Context, code string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rosters[code]
	if !ok || !r.now().Before(e.expiresAt) {
		return nil, nil
	}

	ids := make([]string, 0, len(e.value))
	for id := range e.value {
		ids = append(ids, id)
	}

	return ids, nil
}
