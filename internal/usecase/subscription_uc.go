// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// Status returns the pair's subscription with its status evaluated
	// lazily against the current time; an overdue record is reported (and
	// persisted) as expired.
	Status(ctx context.Context, userID, ownerID string) (*model.ProfileSubscription, error)
	// HasActive reports whether userID currently has paid access to
	// ownerID's profile.
	HasActive(ctx context.Context, userID, ownerID string) (bool, error)
	ListSubscribers(ctx context.Context, ownerID string) ([]*model.ProfileSubscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]*model.ProfileSubscription, error)
	// FinishExpired settles every overdue record in storage and returns how
	// many were flipped to expired.
	FinishExpired(ctx context.Context) (int64, error)
}

type subscriptionUC struct {
	subs repository.SubscriptionRepository
	now  func() time.Time
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository) *subscriptionUC {
	return &subscriptionUC{subs: subs, now: time.Now}
}

func (u *subscriptionUC) Status(ctx context.Context, userID, ownerID string) (*model.ProfileSubscription, error) {
	sub, err := u.subs.FindOne(ctx, nil, userID, ownerID)
	if err != nil {
		return nil, err
	}
	if sub.Status == model.SubscriptionStatusActive && !sub.ActiveAt(u.now()) {
		sub.Status = model.SubscriptionStatusExpired
		sub.UpdatedAt = u.now()
		// Best effort: the derived status is already correct for the caller.
		_ = u.subs.Upsert(ctx, nil, sub)
	}
	return sub, nil
}

func (u *subscriptionUC) HasActive(ctx context.Context, userID, ownerID string) (bool, error) {
	if userID == ownerID {
		// Owners always see their own profile.
		return true, nil
	}
	sub, err := u.subs.FindOne(ctx, nil, userID, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.ActiveAt(u.now()), nil
}

func (u *subscriptionUC) ListSubscribers(ctx context.Context, ownerID string) ([]*model.ProfileSubscription, error) {
	return u.subs.ListByOwner(ctx, nil, ownerID)
}

func (u *subscriptionUC) ListSubscriptions(ctx context.Context, userID string) ([]*model.ProfileSubscription, error) {
	return u.subs.ListByUser(ctx, nil, userID)
}

func (u *subscriptionUC) FinishExpired(ctx context.Context) (int64, error) {
	return u.subs.ExpireOverdue(ctx, nil, u.now())
}
