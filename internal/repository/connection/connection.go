package connection

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

// Conn serializes writes to a websocket connection. gorilla/websocket
// permits only one concurrent writer, and broadcasts reach a connection
// from other members' goroutines.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteJSON(v)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
