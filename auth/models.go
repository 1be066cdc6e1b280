package auth

// Identity is who a verified session token says the caller is.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
