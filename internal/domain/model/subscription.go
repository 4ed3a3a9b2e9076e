package model

import (
	"time"

	"social-platform-backend/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// ProfileSubscription records one user's paid access to another user's
// profile. At most one record exists per (UserID, OwnerID) pair; renewal
// rewrites the window on the existing record instead of stacking time.
type ProfileSubscription struct {
	ID        string // UUID
	UserID    string // the subscriber
	OwnerID   string // the profile owner
	Tier      PlanTier
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfileSubscription creates an active subscription running from now for
// the plan's configured number of days.
func NewProfileSubscription(id, userID, ownerID string, tier PlanTier, days int, now time.Time) (*ProfileSubscription, error) {
	if id == "" || userID == "" || ownerID == "" || !ValidTier(tier) || days <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if userID == ownerID {
		return nil, domain.ErrSelfSubscription
	}
	return &ProfileSubscription{
		ID:        id,
		UserID:    userID,
		OwnerID:   ownerID,
		Tier:      tier,
		Status:    SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, days),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Renew resets the subscription window from now. Remaining time does not
// carry over; the new window is exactly the plan duration.
func (s *ProfileSubscription) Renew(tier PlanTier, days int, now time.Time) error {
	if !ValidTier(tier) || days <= 0 {
		return domain.ErrInvalidArgument
	}
	s.Tier = tier
	s.Status = SubscriptionStatusActive
	s.StartDate = now
	s.EndDate = now.AddDate(0, 0, days)
	s.UpdatedAt = now
	return nil
}

// ActiveAt evaluates expiry lazily; there is no background sweep, status is
// derived wherever it is queried.
func (s *ProfileSubscription) ActiveAt(now time.Time) bool {
	return s != nil && s.Status == SubscriptionStatusActive && now.Before(s.EndDate)
}
