package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/jamspace/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	// session
	mux.Handle("create-room", typed(c.handleCreateRoom))
	mux.Handle("join-room", typed(c.handleJoinRoom))
	mux.Handle("start-performance", typed(c.handleStartPerformance))

	// music
	mux.Handle("play-phrase", typed(c.handlePlayPhrase))
	mux.Handle("stop-phrase", typed(c.handleStopPhrase))

	mux.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		c.logger.WarnContext(ctx, "handler error",
			"message_type", wsrouter.GetMessageTypeFromCtx(ctx),
			"error", err,
		)
	})

	// the reply goes through the sender's serialized writer: broadcasts
	// from other members' handlers target the same socket concurrently
	mux.OnUnknown(func(ctx context.Context, conn *websocket.Conn, messageType string) {
		sender := c.getSenderConnFromCtx(ctx)
		if sender == nil {
			return
		}

		if err := sender.WriteJSON(map[string]string{"error": "unknown message type"}); err != nil {
			c.logger.InfoContext(ctx, "failed to reply to unknown message type", "error", err)
		}
		c.logger.DebugContext(ctx, "unknown message type", "message_type", messageType)
	})

	return mux
}

// typed adapts a handler taking a decoded payload to the router's raw
// signature.
func typed[T any](handler func(ctx context.Context, conn *websocket.Conn, input T) error) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		return handler(ctx, conn, input)
	}
}
