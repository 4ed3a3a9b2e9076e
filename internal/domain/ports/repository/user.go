package repository

import (
	"context"

	"social-platform-backend/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByUsername(ctx context.Context, tx Tx, username string) (*model.User, error)
	// SetVerified flips the account's verified flag.
	SetVerified(ctx context.Context, tx Tx, id string, verified bool) error
	// IncrementTokenBalance atomically adds delta to the account's token
	// balance; concurrent top-ups must not lose updates.
	IncrementTokenBalance(ctx context.Context, tx Tx, id string, delta int64) error
}
