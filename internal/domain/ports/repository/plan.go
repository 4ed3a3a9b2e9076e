package repository

import (
	"context"

	"social-platform-backend/internal/domain/model"
)

// CreatorPlanRepository is the port for per-creator plan persistence.
type CreatorPlanRepository interface {
	Upsert(ctx context.Context, tx Tx, plan *model.CreatorPlan) error
	FindByOwner(ctx context.Context, tx Tx, ownerID string) (*model.CreatorPlan, error)
}
