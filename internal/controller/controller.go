package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/jamspace/server/internal/service/session"
	"github.com/jamspace/server/pkg/validator"
	"github.com/jamspace/server/pkg/wsrouter"
)

type iSessionService interface {
	ConnectPlayer(context.Context, *session.ConnectPlayerParams) error
	CreateRoom(context.Context, *session.CreateRoomParams) (session.CreateRoomResponse, error)
	JoinRoom(context.Context, *session.JoinRoomParams) (session.JoinRoomResponse, error)
	Disconnect(context.Context, *session.DisconnectParams) (session.DisconnectResponse, error)
	StartPerformance(context.Context, *session.StartPerformanceParams) (session.StartPerformanceResponse, error)
	PlayPhrase(context.Context, *session.PlayPhraseParams) (session.PlayPhraseResponse, error)
	StopPhrase(context.Context, *session.StopPhraseParams) (session.StopPhraseResponse, error)
}

type controller struct {
	sessionService iSessionService
	upgrader       websocket.Upgrader
	wsmux          *wsrouter.WSRouter
	validate       *validator.Validator
	logger         *slog.Logger
}

func NewController(sessionService iSessionService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessionService: sessionService,
		validate:       validator.NewValidator(),
		logger:         logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
