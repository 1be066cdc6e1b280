package watchlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UserRef is the client-supplied "userId". The mobile client keeps it in
// string storage, so both 7 and "7" are accepted. Absent, null and "" decode
// to 0, meaning the caller's own watchlist.
type UserRef int64

// UnmarshalJSON accepts a number, a numeric string, an empty string or null.
// The last two leave u at zero, meaning "the caller".
func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return u.parse(s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("userId: %w", err)
	}
	*u = UserRef(n)
	return nil
}

func (u *UserRef) parse(s string) error {
	if s == "" {
		*u = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("userId: %w", err)
	}
	*u = UserRef(n)
	return nil
}

// ParseUserRef parses the userId query parameter.
func ParseUserRef(s string) (UserRef, error) {
	var u UserRef
	err := u.parse(s)
	return u, err
}

// AddRequest is the body of POST /api/watchlist.
type AddRequest struct {
	UserID     UserRef `json:"userId" swaggertype:"integer" example:"1"`
	MovieID    int64   `json:"movieId" validate:"gt=0" example:"550"`
	Title      string  `json:"title" validate:"required" example:"Fight Club"`
	PosterPath *string `json:"posterPath" example:"/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"`
}

// RemoveRequest is the body of DELETE /api/watchlist.
type RemoveRequest struct {
	UserID  UserRef `json:"userId" swaggertype:"integer" example:"1"`
	MovieID int64   `json:"movieId" validate:"gt=0" example:"550"`
}

// MessageResponse is the body of a successful add or remove.
type MessageResponse struct {
	Message string `json:"message" example:"Movie added to watchlist!"`
}
