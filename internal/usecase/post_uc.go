// File: internal/usecase/post_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ PostUseCase = (*postUC)(nil)

// CooldownLimiter is a keyed expiring counter; the post-creation cooldown is
// one entry per user with an explicit TTL rather than any process-wide set.
type CooldownLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type PostUseCase interface {
	Create(ctx context.Context, posterID, title, content string, private bool) (*model.Post, error)
	// Get enforces private-post access: only the author and active
	// subscribers of the author's profile may read a private post.
	Get(ctx context.Context, viewerID, postID string) (*model.Post, error)
	Update(ctx context.Context, actorID, postID, content string) (*model.Post, error)
	Delete(ctx context.Context, actorID, postID string) error
	Feed(ctx context.Context, offset, limit int) ([]*model.Post, error)
	ProfilePosts(ctx context.Context, viewerID, posterID string) ([]*model.Post, error)
	React(ctx context.Context, userID, postID string, kind model.ReactionKind) error
	Unreact(ctx context.Context, userID, postID string, kind model.ReactionKind) error
	LikedBy(ctx context.Context, userID string) ([]*model.Post, error)
}

type postUC struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	subUC    SubscriptionUseCase
	cooldown CooldownLimiter
	window   time.Duration
	log      *zerolog.Logger
}

func NewPostUseCase(posts repository.PostRepository, users repository.UserRepository, subUC SubscriptionUseCase, cooldown CooldownLimiter, window time.Duration, logger *zerolog.Logger) *postUC {
	return &postUC{posts: posts, users: users, subUC: subUC, cooldown: cooldown, window: window, log: logger}
}

func (u *postUC) Create(ctx context.Context, posterID, title, content string, private bool) (*model.Post, error) {
	poster, err := u.users.FindByID(ctx, nil, posterID)
	if err != nil {
		return nil, err
	}

	ok, err := u.cooldown.Allow(ctx, "post_create:"+posterID, 1, u.window)
	if err != nil {
		// Cooldown storage being down should not block posting.
		u.log.Warn().Err(err).Msg("cooldown check failed, allowing post")
	} else if !ok {
		return nil, domain.ErrPostCooldown
	}

	post, err := model.NewPost(ulid.Make().String(), posterID, poster.Username, title, content, private)
	if err != nil {
		return nil, err
	}
	if err := u.posts.Save(ctx, nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (u *postUC) Get(ctx context.Context, viewerID, postID string) (*model.Post, error) {
	post, err := u.posts.FindByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}
	if post.IsPrivate {
		ok, err := u.subUC.HasActive(ctx, viewerID, post.PosterID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNoSubscription
		}
	}
	return post, nil
}

func (u *postUC) Update(ctx context.Context, actorID, postID, content string) (*model.Post, error) {
	post, err := u.posts.FindByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}
	if post.PosterID != actorID {
		return nil, domain.ErrInvalidArgument
	}
	if err := post.Update(content); err != nil {
		return nil, err
	}
	if err := u.posts.Save(ctx, nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (u *postUC) Delete(ctx context.Context, actorID, postID string) error {
	post, err := u.posts.FindByID(ctx, nil, postID)
	if err != nil {
		return err
	}
	actor, err := u.users.FindByID(ctx, nil, actorID)
	if err != nil {
		return err
	}
	if post.PosterID != actorID && !actor.IsAdmin {
		return domain.ErrInvalidArgument
	}
	return u.posts.Delete(ctx, nil, postID)
}

func (u *postUC) Feed(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.posts.List(ctx, nil, offset, limit)
}

func (u *postUC) ProfilePosts(ctx context.Context, viewerID, posterID string) ([]*model.Post, error) {
	includePrivate, err := u.subUC.HasActive(ctx, viewerID, posterID)
	if err != nil {
		return nil, err
	}
	return u.posts.ListByPoster(ctx, nil, posterID, includePrivate)
}

func (u *postUC) React(ctx context.Context, userID, postID string, kind model.ReactionKind) error {
	if _, err := u.posts.FindByID(ctx, nil, postID); err != nil {
		return err
	}
	return u.posts.React(ctx, nil, postID, userID, kind)
}

func (u *postUC) Unreact(ctx context.Context, userID, postID string, kind model.ReactionKind) error {
	return u.posts.Unreact(ctx, nil, postID, userID, kind)
}

func (u *postUC) LikedBy(ctx context.Context, userID string) ([]*model.Post, error) {
	return u.posts.ListReactedBy(ctx, nil, userID, model.ReactionLike)
}
