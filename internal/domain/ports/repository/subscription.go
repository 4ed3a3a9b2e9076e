package repository

import (
	"context"
	"time"

	"social-platform-backend/internal/domain/model"
)

// SubscriptionRepository is the port for profile subscriptions.
type SubscriptionRepository interface {
	// FindOne returns the single record for the (userID, ownerID) pair.
	FindOne(ctx context.Context, tx Tx, userID, ownerID string) (*model.ProfileSubscription, error)
	// Upsert creates the pair's record or overwrites its tier/window/status.
	Upsert(ctx context.Context, tx Tx, sub *model.ProfileSubscription) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.ProfileSubscription, error)
	ListByOwner(ctx context.Context, tx Tx, ownerID string) ([]*model.ProfileSubscription, error)
	// ExpireOverdue flips every active record whose window has closed to
	// expired and returns how many rows changed.
	ExpireOverdue(ctx context.Context, tx Tx, now time.Time) (int64, error)
}
