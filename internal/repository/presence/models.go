package presence

const (
	RoleHost   = "host"
	RolePlayer = "player"
)

type Player struct {
	Id       string `redis:"id"`
	RoomCode string `redis:"room_code"`
	Name     string `redis:"name"`
	Role     string `redis:"role"`
}
