package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type ErrorFunc func(ctx context.Context, conn *websocket.Conn, err error)

type UnknownFunc func(ctx context.Context, conn *websocket.Conn, messageType string)

type WSRouter struct {
	routes    map[string]HandlerFunc
	onError   ErrorFunc
	onUnknown UnknownFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// OnError registers a callback invoked when a handler returns an error.
// Handler errors never terminate the serve loop.
func (r *WSRouter) OnError(f ErrorFunc) {
	r.onError = f
}

// OnUnknown registers a callback invoked for message types with no
// registered handler. The router never writes to conn itself; any reply
// must go through the caller's own serialized writer.
func (r *WSRouter) OnUnknown(f UnknownFunc) {
	r.onUnknown = f
}

// ServeConn reads messages from conn until the connection closes and
// dispatches each to the handler registered for its type. The returned
// error is the read error that ended the loop.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			if r.onUnknown != nil {
				r.onUnknown(withMessageType(ctx, msg.Type), conn, msg.Type)
			}
			continue
		}

		msgCtx := withMessageType(ctx, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil && r.onError != nil {
			r.onError(msgCtx, conn, err)
		}
	}
}
