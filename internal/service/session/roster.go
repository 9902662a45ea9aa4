package session

import (
	"context"
	"errors"

	"github.com/jamspace/server/internal/repository/connection"
	"github.com/jamspace/server/internal/repository/presence"
)

type JoinRoomParams struct {
	RoomCode string
	Name     string
	PlayerId string
}

type JoinRoomResponse struct {
	RoomCode     string
	JoinedPlayer Player
	// Players is the full roster snapshot, joiner included; it is read
	// back after the roster add so the joiner sees itself.
	Players []Player
	// Conns are the other room members, for the player-joined delta.
	Conns []*connection.Conn
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	hostId, err := s.resolveHost(ctx, params.RoomCode)
	if err != nil {
		s.logger.DebugContext(ctx, "join against unknown or expired room", "room_code", params.RoomCode)
		return JoinRoomResponse{}, err
	}

	if err := s.presenceRepo.SetPlayer(ctx, &presence.SetPlayerParams{
		PlayerId: params.PlayerId,
		RoomCode: params.RoomCode,
		Name:     params.Name,
		Role:     presence.RolePlayer,
	}); err != nil {
		s.logger.InfoContext(ctx, "failed to set player", "error", err)
		return JoinRoomResponse{}, err
	}

	if err := s.presenceRepo.AddToRoster(ctx, params.RoomCode, params.PlayerId); err != nil {
		s.logger.InfoContext(ctx, "failed to add player to roster", "error", err)
		return JoinRoomResponse{}, err
	}

	players, err := s.getPlayers(ctx, params.RoomCode)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to get roster", "error", err)
		return JoinRoomResponse{}, err
	}

	conns, err := s.getRoomConns(ctx, params.RoomCode, hostId, params.PlayerId)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to get room conns", "error", err)
		return JoinRoomResponse{}, err
	}

	return JoinRoomResponse{
		RoomCode: params.RoomCode,
		JoinedPlayer: Player{
			Id:   params.PlayerId,
			Name: params.Name,
			Role: presence.RolePlayer,
		},
		Players: players,
		Conns:   conns,
	}, nil
}

type DisconnectParams struct {
	PlayerId string
}

type DisconnectResponse struct {
	RoomCode string
	// Left is false when the id had no record: never joined, already
	// left, or a host. Cleanup is a no-op then.
	Left  bool
	Conns []*connection.Conn
}

// Disconnect is both the graceful-leave and the abrupt-disconnect path;
// calling it twice for the same id has the effect of calling it once.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	defer func() {
		if err := s.connRepo.Remove(params.PlayerId); err != nil && !errors.Is(err, connection.ErrNotFound) {
			s.logger.InfoContext(ctx, "failed to remove connection", "error", err)
		}
	}()

	player, err := s.presenceRepo.GetPlayer(ctx, params.PlayerId)
	if err != nil {
		if !errors.Is(err, presence.ErrPlayerNotFound) {
			s.logger.InfoContext(ctx, "failed to get player record", "error", err)
		}
		return DisconnectResponse{}, nil
	}

	if err := s.presenceRepo.RemoveFromRoster(ctx, player.RoomCode, params.PlayerId); err != nil {
		s.logger.InfoContext(ctx, "failed to remove player from roster", "error", err)
	}

	if err := s.presenceRepo.RemovePlayer(ctx, params.PlayerId); err != nil && !errors.Is(err, presence.ErrPlayerNotFound) {
		s.logger.InfoContext(ctx, "failed to remove player record", "error", err)
	}

	hostId, err := s.resolveHost(ctx, player.RoomCode)
	if err != nil {
		// room already expired, only roster members can still be reached
		hostId = ""
	}

	conns, err := s.getRoomConns(ctx, player.RoomCode, hostId, params.PlayerId)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to get room conns", "error", err)
		return DisconnectResponse{}, err
	}

	return DisconnectResponse{
		RoomCode: player.RoomCode,
		Left:     true,
		Conns:    conns,
	}, nil
}
