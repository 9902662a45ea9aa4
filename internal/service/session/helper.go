package session

import (
	"context"

	"github.com/jamspace/server/internal/repository/connection"
)

// resolveHost collapses never-existed and expired codes into one error.
func (s service) resolveHost(ctx context.Context, code string) (string, error) {
	hostId, err := s.presenceRepo.GetRoomHost(ctx, code)
	if err != nil {
		return "", ErrRoomNotFound
	}

	return hostId, nil
}

// getPlayers fans in the full roster of a room. Ids whose record has
// already vanished are skipped; the next leave or TTL expiry clears them.
func (s service) getPlayers(ctx context.Context, code string) ([]Player, error) {
	playerIds, err := s.presenceRepo.GetRosterIds(ctx, code)
	if err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(playerIds))
	for _, playerId := range playerIds {
		player, err := s.presenceRepo.GetPlayer(ctx, playerId)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping roster id without record", "player_id", playerId, "error", err)
			continue
		}

		players = append(players, Player{
			Id:   player.Id,
			Name: player.Name,
			Role: player.Role,
		})
	}

	return players, nil
}

// getRoomConns collects the live connections of a room's broadcast
// group: the host plus every roster member, minus excludeId. Members
// without a live connection are skipped.
func (s service) getRoomConns(ctx context.Context, code, hostId, excludeId string) ([]*connection.Conn, error) {
	playerIds, err := s.presenceRepo.GetRosterIds(ctx, code)
	if err != nil {
		return nil, err
	}

	memberIds := make([]string, 0, len(playerIds)+1)
	if hostId != "" {
		memberIds = append(memberIds, hostId)
	}
	memberIds = append(memberIds, playerIds...)

	conns := make([]*connection.Conn, 0, len(memberIds))
	for _, memberId := range memberIds {
		if memberId == excludeId {
			continue
		}

		conn, err := s.connRepo.GetConn(memberId)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping member without connection", "member_id", memberId)
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}
