// File: internal/usecase/plan_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	// SetOrUpdate applies a partial update: only the tiers present in updates
	// are touched, existing tiers are kept.
	SetOrUpdate(ctx context.Context, ownerID string, updates map[model.PlanTier]model.TierConfig) (*model.CreatorPlan, error)
	Get(ctx context.Context, ownerID string) (*model.CreatorPlan, error)
}

type planUC struct {
	plans repository.CreatorPlanRepository
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewPlanUseCase(plans repository.CreatorPlanRepository, users repository.UserRepository, logger *zerolog.Logger) *planUC {
	return &planUC{plans: plans, users: users, log: logger}
}

func (u *planUC) SetOrUpdate(ctx context.Context, ownerID string, updates map[model.PlanTier]model.TierConfig) (*model.CreatorPlan, error) {
	if len(updates) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := u.users.FindByID(ctx, nil, ownerID); err != nil {
		return nil, err
	}

	plan, err := u.plans.FindByOwner(ctx, nil, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		plan, err = model.NewCreatorPlan(ownerID)
	}
	if err != nil {
		return nil, err
	}

	for tier, cfg := range updates {
		if err := plan.SetTier(tier, cfg); err != nil {
			return nil, err
		}
	}
	if err := u.plans.Upsert(ctx, nil, plan); err != nil {
		return nil, err
	}
	u.log.Info().Str("owner_id", ownerID).Int("tiers", len(plan.Tiers)).Msg("creator plan updated")
	return plan, nil
}

func (u *planUC) Get(ctx context.Context, ownerID string) (*model.CreatorPlan, error) {
	return u.plans.FindByOwner(ctx, nil, ownerID)
}
