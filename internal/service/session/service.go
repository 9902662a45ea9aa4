package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jamspace/server/internal/repository/connection"
	"github.com/jamspace/server/internal/repository/presence"
)

var ErrRoomNotFound = errors.New("room not found")

type iPresenceRepo interface {
	// room
	SetRoom(ctx context.Context, code, hostId string) error
	GetRoomHost(ctx context.Context, code string) (string, error)
	// player
	SetPlayer(context.Context, *presence.SetPlayerParams) error
	GetPlayer(ctx context.Context, playerId string) (presence.Player, error)
	RemovePlayer(ctx context.Context, playerId string) error
	// roster
	AddToRoster(ctx context.Context, code, playerId string) error
	RemoveFromRoster(ctx context.Context, code, playerId string) error
	GetRosterIds(ctx context.Context, code string) ([]string, error)
}

type iConnRepo interface {
	Add(playerId string, conn *connection.Conn) error
	Remove(playerId string) error
	GetConn(playerId string) (*connection.Conn, error)
}

type iCodeGenerator interface {
	Generate() string
}

type service struct {
	presenceRepo iPresenceRepo
	connRepo     iConnRepo
	generator    iCodeGenerator
	logger       *slog.Logger
}

func NewService(presenceRepo iPresenceRepo, connRepo iConnRepo, generator iCodeGenerator, logger *slog.Logger) *service {
	return &service{
		presenceRepo: presenceRepo,
		connRepo:     connRepo,
		generator:    generator,
		logger:       logger,
	}
}
