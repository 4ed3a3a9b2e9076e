// File: internal/usecase/user_uc.go
package usecase

import (
	"context"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	Get(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// IsVerified reports the account's payment-verification flag.
	IsVerified(ctx context.Context, id string) (bool, error)
	UpdateBiography(ctx context.Context, id, biography string) (*model.User, error)
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
}

type userUC struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewUserUseCase(users repository.UserRepository, follows repository.FollowRepository) *userUC {
	return &userUC{users: users, follows: follows}
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, nil, id)
}

func (u *userUC) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.users.FindByUsername(ctx, nil, username)
}

func (u *userUC) IsVerified(ctx context.Context, id string) (bool, error) {
	user, err := u.users.FindByID(ctx, nil, id)
	if err != nil {
		return false, err
	}
	return user.Verified, nil
}

func (u *userUC) UpdateBiography(ctx context.Context, id, biography string) (*model.User, error) {
	user, err := u.users.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if len(biography) > 250 {
		return nil, domain.ErrInvalidArgument
	}
	user.Biography = biography
	if err := u.users.Save(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return domain.ErrInvalidArgument
	}
	if _, err := u.users.FindByID(ctx, nil, followedID); err != nil {
		return err
	}
	return u.follows.Follow(ctx, nil, followerID, followedID)
}

func (u *userUC) Unfollow(ctx context.Context, followerID, followedID string) error {
	return u.follows.Unfollow(ctx, nil, followerID, followedID)
}

func (u *userUC) Followers(ctx context.Context, userID string) ([]string, error) {
	return u.follows.ListFollowers(ctx, nil, userID)
}

func (u *userUC) Following(ctx context.Context, userID string) ([]string, error) {
	return u.follows.ListFollowing(ctx, nil, userID)
}
