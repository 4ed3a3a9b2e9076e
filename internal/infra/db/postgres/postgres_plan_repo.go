package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

var _ repository.CreatorPlanRepository = (*planRepo)(nil)

// planRepo stores creator plans as one row per configured tier; a plan exists
// when the owner has at least one tier row.
type planRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

func (r *planRepo) Upsert(ctx context.Context, tx repository.Tx, plan *model.CreatorPlan) error {
	const q = `
INSERT INTO creator_plan_tiers (owner_id, tier, amount, days, created_at, updated_at)
VALUES ($1,$2,$3,$4,NOW(),NOW())
ON CONFLICT (owner_id, tier) DO UPDATE SET amount=$3, days=$4, updated_at=NOW();`

	for tier, cfg := range plan.Tiers {
		if _, err := execSQL(ctx, r.pool, tx, q, plan.OwnerID, string(tier), cfg.Amount, cfg.Days); err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
				return err
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *planRepo) FindByOwner(ctx context.Context, tx repository.Tx, ownerID string) (*model.CreatorPlan, error) {
	const q = `
SELECT tier, amount, days, created_at, updated_at
  FROM creator_plan_tiers
 WHERE owner_id=$1
 ORDER BY tier;`
	rows, err := queryRows(ctx, r.pool, tx, q, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	plan := &model.CreatorPlan{OwnerID: ownerID, Tiers: make(map[model.PlanTier]model.TierConfig)}
	for rows.Next() {
		var tier string
		var cfg model.TierConfig
		if err := rows.Scan(&tier, &cfg.Amount, &cfg.Days, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrReadDatabaseRow
		}
		plan.Tiers[model.PlanTier(tier)] = cfg
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if len(plan.Tiers) == 0 {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}
