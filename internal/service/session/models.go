package session

type Player struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
