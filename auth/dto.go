package auth

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Email    string `json:"email" validate:"required,email" example:"a@x.com"`
	Password string `json:"password" validate:"required" example:"pw123456"`
}

// LoginRequest is the body of POST /api/login. UsernameOrEmail matches
// either an exact username or a (case-insensitive) email.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required" example:"alice"`
	Password        string `json:"password" validate:"required" example:"pw123456"`
}

// MessageResponse is the body of a successful signup.
type MessageResponse struct {
	Msg string `json:"msg" example:"User created successfully!"`
}

// LoginResponse carries the session token and the id of its owner.
type LoginResponse struct {
	Token  string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID int64  `json:"user_id" example:"1"`
}
