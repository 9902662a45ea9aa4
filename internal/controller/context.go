package controller

import (
	"context"

	"github.com/jamspace/server/internal/repository/connection"
)

type contextKey int

const (
	playerIdCtxKey contextKey = iota
	senderConnCtxKey
)

func (c controller) getPlayerIdFromCtx(ctx context.Context) string {
	playerId, ok := ctx.Value(playerIdCtxKey).(string)
	if !ok {
		return ""
	}

	return playerId
}

func (c controller) getSenderConnFromCtx(ctx context.Context) *connection.Conn {
	conn, ok := ctx.Value(senderConnCtxKey).(*connection.Conn)
	if !ok {
		return nil
	}

	return conn
}
