package session

import (
	"context"

	"github.com/jamspace/server/internal/repository/connection"
)

// Phrase events are routed to the host connection only: the host is the
// sole driver of audio, so every participant's instrument is rendered
// once, keyed by participant id. Events addressed to a room whose host
// binding is gone are dropped without notifying the sender.

type PlayPhraseParams struct {
	RoomCode string
	SenderId string
	PhraseId string
}

type PlayPhraseResponse struct {
	// HostConn is nil when the event was dropped.
	HostConn *connection.Conn
}

func (s service) PlayPhrase(ctx context.Context, params *PlayPhraseParams) (PlayPhraseResponse, error) {
	conn := s.resolveHostConn(ctx, params.RoomCode)
	return PlayPhraseResponse{HostConn: conn}, nil
}

type StopPhraseParams struct {
	RoomCode string
	SenderId string
}

type StopPhraseResponse struct {
	HostConn *connection.Conn
}

func (s service) StopPhrase(ctx context.Context, params *StopPhraseParams) (StopPhraseResponse, error) {
	conn := s.resolveHostConn(ctx, params.RoomCode)
	return StopPhraseResponse{HostConn: conn}, nil
}

type StartPerformanceParams struct {
	RoomCode string
	SenderId string
}

type StartPerformanceResponse struct {
	Conns []*connection.Conn
}

// StartPerformance fans performance-started out to the room's players.
// The initiating host flips its own view locally.
func (s service) StartPerformance(ctx context.Context, params *StartPerformanceParams) (StartPerformanceResponse, error) {
	hostId, err := s.resolveHost(ctx, params.RoomCode)
	if err != nil {
		s.logger.DebugContext(ctx, "dropping start-performance for unknown room", "room_code", params.RoomCode)
		return StartPerformanceResponse{}, nil
	}

	conns, err := s.getRoomConns(ctx, params.RoomCode, hostId, params.SenderId)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to get room conns", "error", err)
		return StartPerformanceResponse{}, err
	}

	return StartPerformanceResponse{Conns: conns}, nil
}

func (s service) resolveHostConn(ctx context.Context, roomCode string) *connection.Conn {
	hostId, err := s.resolveHost(ctx, roomCode)
	if err != nil {
		s.logger.DebugContext(ctx, "dropping phrase event for unknown room", "room_code", roomCode)
		return nil
	}

	conn, err := s.connRepo.GetConn(hostId)
	if err != nil {
		s.logger.DebugContext(ctx, "dropping phrase event, host connection gone", "room_code", roomCode)
		return nil
	}

	return conn
}
