package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/ports/repository"
)

var _ repository.FollowRepository = (*followRepo)(nil)

type followRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *followRepo {
	return &followRepo{pool: pool}
}

func (r *followRepo) Follow(ctx context.Context, tx repository.Tx, followerID, followedID string) error {
	const q = `INSERT INTO follows (follower_id, followed_id, created_at) VALUES ($1,$2,NOW());`
	_, err := execSQL(ctx, r.pool, tx, q, followerID, followedID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *followRepo) Unfollow(ctx context.Context, tx repository.Tx, followerID, followedID string) error {
	const q = `DELETE FROM follows WHERE follower_id=$1 AND followed_id=$2;`
	cmd, err := execSQL(ctx, r.pool, tx, q, followerID, followedID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *followRepo) ListFollowers(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
	const q = `SELECT follower_id FROM follows WHERE followed_id=$1 ORDER BY created_at DESC;`
	return r.queryIDs(ctx, tx, q, userID)
}

func (r *followRepo) ListFollowing(ctx context.Context, tx repository.Tx, userID string) ([]string, error) {
	const q = `SELECT followed_id FROM follows WHERE follower_id=$1 ORDER BY created_at DESC;`
	return r.queryIDs(ctx, tx, q, userID)
}

func (r *followRepo) queryIDs(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]string, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
