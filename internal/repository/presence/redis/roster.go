package redis

import (
	"context"
)

func (r repo) AddToRoster(ctx context.Context, code, playerId string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"code":      code,
		"player_id": playerId,
	})
	rosterKey := r.getRosterKey(code)

	pipe := r.rc.TxPipeline()
	pipe.SAdd(ctx, rosterKey, playerId)
	pipe.Expire(ctx, rosterKey, r.ttl)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) RemoveFromRoster(ctx context.Context, code, playerId string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"code":      code,
		"player_id": playerId,
	})
	if err := r.rc.SRem(ctx, r.getRosterKey(code), playerId).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetRosterIds(ctx context.Context, code string) ([]string, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"code": code,
	})
	playerIds, err := r.rc.SMembers(ctx, r.getRosterKey(code)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return playerIds, nil
}
