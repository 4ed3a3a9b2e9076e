package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/model"
	"social-platform-backend/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subColumns = `id, user_id, owner_id, tier, status, start_date, end_date, created_at, updated_at`

// Upsert writes the pair's single record; the unique (user_id, owner_id)
// constraint is what keeps renewals from creating parallel records.
func (r *subscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.ProfileSubscription) error {
	const q = `
INSERT INTO profile_subscriptions (
  id, user_id, owner_id, tier, status, start_date, end_date, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (user_id, owner_id) DO UPDATE SET
  tier=$4, status=$5, start_date=$6, end_date=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.OwnerID, string(s.Tier), string(s.Status), s.StartDate, s.EndDate, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindOne(ctx context.Context, tx repository.Tx, userID, ownerID string) (*model.ProfileSubscription, error) {
	q := `SELECT ` + subColumns + ` FROM profile_subscriptions WHERE user_id=$1 AND owner_id=$2`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, userID, ownerID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.ProfileSubscription, error) {
	const q = `SELECT ` + subColumns + ` FROM profile_subscriptions WHERE user_id=$1 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, userID)
}

func (r *subscriptionRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string) ([]*model.ProfileSubscription, error) {
	const q = `SELECT ` + subColumns + ` FROM profile_subscriptions WHERE owner_id=$1 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, ownerID)
}

// ExpireOverdue is the periodic sweep behind the lazy per-read expiry: it
// settles every overdue record in one statement.
func (r *subscriptionRepo) ExpireOverdue(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	const q = `
UPDATE profile_subscriptions
SET status=$1, updated_at=$2
WHERE status=$3 AND end_date < $2;`

	ct, err := execSQL(ctx, r.pool, tx, q,
		string(model.SubscriptionStatusExpired), now, string(model.SubscriptionStatusActive))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return ct.RowsAffected(), nil
}

func (r *subscriptionRepo) queryMany(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.ProfileSubscription, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.ProfileSubscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (*model.ProfileSubscription, error) {
	var s model.ProfileSubscription
	var tier, status string
	if err := row.Scan(&s.ID, &s.UserID, &s.OwnerID, &tier, &status, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Tier = model.PlanTier(tier)
	s.Status = model.SubscriptionStatus(status)
	return &s, nil
}
