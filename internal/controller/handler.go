package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jamspace/server/internal/repository/connection"
	"github.com/jamspace/server/internal/service/session"
	"github.com/jamspace/server/pkg/ctxlogger"
)

// serveWS upgrades the connection, assigns it a transport identity and
// serves its message loop. The connection id doubles as the participant
// id for the lifetime of the connection; there is no resume.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	playerId := uuid.NewString()
	sender := connection.NewConn(conn)

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("connection_id", playerId))

	if err := c.sessionService.ConnectPlayer(ctx, &session.ConnectPlayerParams{
		PlayerId: playerId,
		Conn:     sender,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to register connection", "error", err)
		return
	}

	ctx = context.WithValue(ctx, playerIdCtxKey, playerId)
	ctx = context.WithValue(ctx, senderConnCtxKey, sender)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}

	// the read loop has exited; run the same cleanup as a graceful leave
	c.disconnect(ctx, playerId)
}

func (c controller) disconnect(ctx context.Context, playerId string) {
	disconnectResp, err := c.sessionService.Disconnect(ctx, &session.DisconnectParams{
		PlayerId: playerId,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "failed to disconnect player", "error", err)
		return
	}

	if !disconnectResp.Left {
		return
	}

	c.broadcast(ctx, disconnectResp.Conns, &Output{
		Type: "player-left",
		Payload: map[string]any{
			"player_id": playerId,
		},
	})
}
