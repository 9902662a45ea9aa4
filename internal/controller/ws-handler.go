package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/jamspace/server/internal/service/session"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type EmptyInput struct{}

func (c controller) handleCreateRoom(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	createRoomResp, err := c.sessionService.CreateRoom(ctx, &session.CreateRoomParams{
		HostId: playerId,
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return c.writeToConn(ctx, c.getSenderConnFromCtx(ctx), &Output{
		Type: "session-created",
		Payload: map[string]any{
			"code": createRoomResp.Code,
		},
	})
}

type JoinRoomInput struct {
	RoomCode string `json:"room_code" validate:"required,len=6,numeric"`
	Name     string `json:"name" validate:"required,max=32"`
}

func (c controller) handleJoinRoom(ctx context.Context, _ *websocket.Conn, input JoinRoomInput) error {
	playerId := c.getPlayerIdFromCtx(ctx)
	sender := c.getSenderConnFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, sender, &Output{
			Type: "join-error",
			Payload: map[string]any{
				"message": validationErrors[0].Message,
			},
		})
	}

	joinRoomResp, err := c.sessionService.JoinRoom(ctx, &session.JoinRoomParams{
		RoomCode: input.RoomCode,
		Name:     input.Name,
		PlayerId: playerId,
	})
	if err != nil {
		if errors.Is(err, session.ErrRoomNotFound) {
			return c.writeToConn(ctx, sender, &Output{
				Type: "join-error",
				Payload: map[string]any{
					"message": "Room not found or expired.",
				},
			})
		}

		return fmt.Errorf("failed to join room: %w", err)
	}

	// the joiner gets the full snapshot, everyone else the delta
	if err := c.writeToConn(ctx, sender, &Output{
		Type: "join-success",
		Payload: map[string]any{
			"room_code":       joinRoomResp.RoomCode,
			"current_players": joinRoomResp.Players,
		},
	}); err != nil {
		return err
	}

	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type:    "player-joined",
		Payload: joinRoomResp.JoinedPlayer,
	})

	return nil
}

type StartPerformanceInput struct {
	RoomCode string `json:"room_code"`
}

func (c controller) handleStartPerformance(ctx context.Context, _ *websocket.Conn, input StartPerformanceInput) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	startResp, err := c.sessionService.StartPerformance(ctx, &session.StartPerformanceParams{
		RoomCode: input.RoomCode,
		SenderId: playerId,
	})
	if err != nil {
		return fmt.Errorf("failed to start performance: %w", err)
	}

	c.broadcast(ctx, startResp.Conns, &Output{
		Type:    "performance-started",
		Payload: map[string]any{},
	})

	return nil
}

type PlayPhraseInput struct {
	RoomCode string `json:"room_code"`
	PhraseId string `json:"phrase_id"`
}

func (c controller) handlePlayPhrase(ctx context.Context, _ *websocket.Conn, input PlayPhraseInput) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	playResp, err := c.sessionService.PlayPhrase(ctx, &session.PlayPhraseParams{
		RoomCode: input.RoomCode,
		SenderId: playerId,
		PhraseId: input.PhraseId,
	})
	if err != nil {
		return fmt.Errorf("failed to route play: %w", err)
	}

	if playResp.HostConn == nil {
		return nil
	}

	return c.writeToConn(ctx, playResp.HostConn, &Output{
		Type: "phrase-played",
		Payload: map[string]any{
			"player_id": playerId,
			"phrase_id": input.PhraseId,
		},
	})
}

type StopPhraseInput struct {
	RoomCode string `json:"room_code"`
}

func (c controller) handleStopPhrase(ctx context.Context, _ *websocket.Conn, input StopPhraseInput) error {
	playerId := c.getPlayerIdFromCtx(ctx)

	stopResp, err := c.sessionService.StopPhrase(ctx, &session.StopPhraseParams{
		RoomCode: input.RoomCode,
		SenderId: playerId,
	})
	if err != nil {
		return fmt.Errorf("failed to route stop: %w", err)
	}

	if stopResp.HostConn == nil {
		return nil
	}

	return c.writeToConn(ctx, stopResp.HostConn, &Output{
		Type: "phrase-stopped",
		Payload: map[string]any{
			"player_id": playerId,
		},
	})
}
