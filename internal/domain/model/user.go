package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"social-platform-backend/internal/domain"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9]{6,30}$`)

// User is a platform account. TokenBalance is the platform-token counter
// credited by confirmed top-up payments; it is only ever mutated through the
// repository's atomic increment.
type User struct {
	ID           string // UUID
	Username     string
	Email        string
	Biography    string
	Verified     bool
	TokenBalance int64
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(id, username, email string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if !usernameRe.MatchString(username) {
		return nil, domain.ErrInvalidArgument
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
