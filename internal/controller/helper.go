package controller

import (
	"context"
	"fmt"

	"github.com/jamspace/server/internal/repository/connection"
)

func (c controller) writeToConn(ctx context.Context, conn *connection.Conn, output *Output) error {
	if conn == nil {
		return nil
	}

	if err := conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output.Type, err)
	}

	return nil
}

// broadcast writes output to every conn, logging failures instead of
// aborting: an unreachable member is cleaned up by its own disconnect.
func (c controller) broadcast(ctx context.Context, conns []*connection.Conn, output *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(output); err != nil {
			c.logger.InfoContext(ctx, "failed to broadcast", "type", output.Type, "error", err)
		}
	}
}
