package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc     *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRepo returns a presence repository backed by redis. Every key it
// writes carries ttl; roster mutations re-apply it so a room and its
// derived keys expire together.
func NewRepo(rc *redis.Client, ttl time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		ttl:    ttl,
		logger: logger,
	}
}

func (r repo) getRoomKey(code string) string {
	return "room:" + code
}

func (r repo) getRosterKey(code string) string {
	return "room:" + code + ":roster"
}

func (r repo) getPlayerKey(playerId string) string {
	return "player:" + playerId
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
