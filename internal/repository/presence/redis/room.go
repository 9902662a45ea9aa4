package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/jamspace/server/internal/repository/presence"
)

func (r repo) SetRoom(ctx context.Context, code, hostId string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"code":    code,
		"host_id": hostId,
	})
	ok, err := r.rc.SetNX(ctx, r.getRoomKey(code), hostId, r.ttl).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if !ok {
		r.logger.DebugContext(ctx, "returned", "error", presence.ErrRoomCodeTaken)
		return presence.ErrRoomCodeTaken
	}

	return nil
}

func (r repo) GetRoomHost(ctx context.Context, code string) (string, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"code": code,
	})
	hostId, err := r.rc.Get(ctx, r.getRoomKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = presence.ErrRoomNotFound
		}
		r.logger.DebugContext(ctx, "returned", "error", err)
		return "", err
	}

	return hostId, nil
}
