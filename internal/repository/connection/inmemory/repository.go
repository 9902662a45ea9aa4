package inmemory

import (
	"sync"

	"github.com/jamspace/server/internal/repository/connection"
)

type repo struct {
	mu     sync.RWMutex
	idList map[string]*connection.Conn
}

func NewRepo() *repo {
	return &repo{
		idList: make(map[string]*connection.Conn),
	}
}

func (r *repo) Add(playerId string, conn *connection.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idList[playerId] != nil {
		return connection.ErrAlreadyExists
	}

	r.idList[playerId] = conn
	return nil
}

func (r *repo) Remove(playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.idList[playerId]; !ok {
		return connection.ErrNotFound
	}

	delete(r.idList, playerId)
	return nil
}

func (r *repo) GetConn(playerId string) (*connection.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[playerId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}
