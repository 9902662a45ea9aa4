package presence

type SetPlayerParams struct {
	PlayerId string
	RoomCode string
	Name     string
	Role     string
}
