package redis

import (
	"context"

	"github.com/jamspace/server/internal/repository/presence"
)

func (r repo) SetPlayer(ctx context.Context, params *presence.SetPlayerParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	pipe := r.rc.TxPipeline()

	player := presence.Player{
		Id:       params.PlayerId,
		RoomCode: params.RoomCode,
		Name:     params.Name,
		Role:     params.Role,
	}

	playerKey := r.getPlayerKey(params.PlayerId)
	pipe.HSet(ctx, playerKey, player)
	pipe.Expire(ctx, playerKey, r.ttl)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetPlayer(ctx context.Context, playerId string) (presence.Player, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"player_id": playerId,
	})
	var player presence.Player
	if err := r.rc.HGetAll(ctx, r.getPlayerKey(playerId)).Scan(&player); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return presence.Player{}, err
	}

	if player.Id == "" {
		r.logger.DebugContext(ctx, "returned", "error", presence.ErrPlayerNotFound)
		return presence.Player{}, presence.ErrPlayerNotFound
	}

	return player, nil
}

func (r repo) RemovePlayer(ctx context.Context, playerId string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"player_id": playerId,
	})
	res, err := r.rc.Del(ctx, r.getPlayerKey(playerId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", presence.ErrPlayerNotFound)
		return presence.ErrPlayerNotFound
	}

	return nil
}
