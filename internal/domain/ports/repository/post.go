package repository

import (
	"context"

	"social-platform-backend/internal/domain/model"
)

// -----------------------------
// Posts
// -----------------------------

type PostRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Post) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Post, error)
	Delete(ctx context.Context, tx Tx, id string) error
	// List returns public posts newest-first.
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Post, error)
	ListByPoster(ctx context.Context, tx Tx, posterID string, includePrivate bool) ([]*model.Post, error)
	// React records a like/dislike and bumps the matching counter; returns
	// domain.ErrAlreadyExists when the reaction is already present.
	React(ctx context.Context, tx Tx, postID, userID string, kind model.ReactionKind) error
	// Unreact removes a reaction and decrements the matching counter; returns
	// domain.ErrNotFound when no such reaction exists.
	Unreact(ctx context.Context, tx Tx, postID, userID string, kind model.ReactionKind) error
	ListReactedBy(ctx context.Context, tx Tx, userID string, kind model.ReactionKind) ([]*model.Post, error)
}

// FollowRepository is the port for the follow graph.
type FollowRepository interface {
	Follow(ctx context.Context, tx Tx, followerID, followedID string) error
	Unfollow(ctx context.Context, tx Tx, followerID, followedID string) error
	ListFollowers(ctx context.Context, tx Tx, userID string) ([]string, error)
	ListFollowing(ctx context.Context, tx Tx, userID string) ([]string, error)
}
