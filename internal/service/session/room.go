package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamspace/server/internal/repository/connection"
	"github.com/jamspace/server/internal/repository/presence"
)

// createRoomAttempts bounds the SETNX retry on a code collision. With a
// million-code space collisions are already rare; the retry just removes
// the failure mode entirely.
const createRoomAttempts = 3

type CreateRoomParams struct {
	HostId string
}

type CreateRoomResponse struct {
	Code string
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	for i := 0; i < createRoomAttempts; i++ {
		code := s.generator.Generate()

		err := s.presenceRepo.SetRoom(ctx, code, params.HostId)
		if errors.Is(err, presence.ErrRoomCodeTaken) {
			s.logger.InfoContext(ctx, "room code collision", "code", code)
			continue
		}
		if err != nil {
			s.logger.InfoContext(ctx, "failed to create room", "error", err)
			return CreateRoomResponse{}, err
		}

		return CreateRoomResponse{Code: code}, nil
	}

	return CreateRoomResponse{}, fmt.Errorf("failed to allocate room code after %d attempts", createRoomAttempts)
}

type ConnectPlayerParams struct {
	PlayerId string
	Conn     *connection.Conn
}

func (s service) ConnectPlayer(ctx context.Context, params *ConnectPlayerParams) error {
	if err := s.connRepo.Add(params.PlayerId, params.Conn); err != nil {
		s.logger.InfoContext(ctx, "failed to connect player", "error", err)
		return err
	}

	return nil
}
