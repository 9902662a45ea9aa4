package presence

import "errors"

var (
	// ErrRoomNotFound is returned for codes that never existed and for
	// codes whose TTL expired; callers cannot distinguish the two.
	ErrRoomNotFound = errors.New("room not found")

	ErrRoomCodeTaken  = errors.New("room code taken")
	ErrPlayerNotFound = errors.New("player not found")
)
