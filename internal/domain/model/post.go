package model

import (
	"time"

	"social-platform-backend/internal/domain"
)

const (
	MaxPostTitleLen   = 50
	MaxPostContentLen = 400
)

// Post is a user-authored post. Private posts are visible only to the author
// and to users holding an active subscription to the author's profile.
type Post struct {
	ID           string // ULID
	PosterID     string
	Username     string
	Title        string
	Content      string
	IsPrivate    bool
	LikeCount    int
	DislikeCount int
	CommentCount int
	Edited       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewPost(id, posterID, username, title, content string, private bool) (*Post, error) {
	if id == "" || posterID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if title == "" || len(title) > MaxPostTitleLen {
		return nil, domain.ErrInvalidArgument
	}
	if content == "" || len(content) > MaxPostContentLen {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Post{
		ID:        id,
		PosterID:  posterID,
		Username:  username,
		Title:     title,
		Content:   content,
		IsPrivate: private,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Post) Update(content string) error {
	if content == "" || len(content) > MaxPostContentLen {
		return domain.ErrInvalidArgument
	}
	p.Content = content
	p.Edited = true
	p.UpdatedAt = time.Now()
	return nil
}

// PostReaction is a like or dislike; one row per (PostID, UserID, Kind).
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

type PostReaction struct {
	PostID    string
	UserID    string
	Kind      ReactionKind
	CreatedAt time.Time
}

// Follow is one edge of the follow graph.
type Follow struct {
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}
