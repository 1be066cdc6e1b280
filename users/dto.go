package users

// UsernameResponse is the body of GET /api/user/{id}.
type UsernameResponse struct {
	Username string `json:"username" example:"alice"`
}
