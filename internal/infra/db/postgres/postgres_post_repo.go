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

var _ repository.PostRepository = (*postRepo)(nil)

type postRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *postRepo {
	return &postRepo{pool: pool}
}

const postColumns = `id, poster_id, username, title, content, is_private, like_count, dislike_count, comment_count, edited, created_at, updated_at`

func (r *postRepo) Save(ctx context.Context, tx repository.Tx, p *model.Post) error {
	const q = `
INSERT INTO posts (
  id, poster_id, username, title, content, is_private, like_count, dislike_count, comment_count, edited, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  title=$4, content=$5, is_private=$6, edited=$10, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.PosterID, p.Username, p.Title, p.Content, p.IsPrivate, p.LikeCount, p.DislikeCount, p.CommentCount, p.Edited, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *postRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPost(row)
}

func (r *postRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM posts WHERE id=$1;`, id)
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

func (r *postRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE NOT is_private ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	return r.queryMany(ctx, tx, q, offset, limit)
}

func (r *postRepo) ListByPoster(ctx context.Context, tx repository.Tx, posterID string, includePrivate bool) ([]*model.Post, error) {
	const q = `
SELECT ` + postColumns + `
  FROM posts
 WHERE poster_id=$1 AND (NOT is_private OR $2)
 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, posterID, includePrivate)
}

// React inserts the reaction row and bumps the matching counter in one
// statement, so the counter can never drift from the reaction rows.
func (r *postRepo) React(ctx context.Context, tx repository.Tx, postID, userID string, kind model.ReactionKind) error {
	const q = `
WITH ins AS (
  INSERT INTO post_reactions (post_id, user_id, kind, created_at)
  VALUES ($1,$2,$3,NOW())
  ON CONFLICT (post_id, user_id, kind) DO NOTHING
  RETURNING 1
)
UPDATE posts
   SET like_count    = like_count    + CASE WHEN $3='like'    THEN 1 ELSE 0 END,
       dislike_count = dislike_count + CASE WHEN $3='dislike' THEN 1 ELSE 0 END
 WHERE id=$1 AND EXISTS (SELECT 1 FROM ins);`

	cmd, err := execSQL(ctx, r.pool, tx, q, postID, userID, string(kind))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *postRepo) Unreact(ctx context.Context, tx repository.Tx, postID, userID string, kind model.ReactionKind) error {
	const q = `
WITH del AS (
  DELETE FROM post_reactions
   WHERE post_id=$1 AND user_id=$2 AND kind=$3
  RETURNING 1
)
UPDATE posts
   SET like_count    = like_count    - CASE WHEN $3='like'    THEN 1 ELSE 0 END,
       dislike_count = dislike_count - CASE WHEN $3='dislike' THEN 1 ELSE 0 END
 WHERE id=$1 AND EXISTS (SELECT 1 FROM del);`

	cmd, err := execSQL(ctx, r.pool, tx, q, postID, userID, string(kind))
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

func (r *postRepo) ListReactedBy(ctx context.Context, tx repository.Tx, userID string, kind model.ReactionKind) ([]*model.Post, error) {
	const q = `
SELECT p.id, p.poster_id, p.username, p.title, p.content, p.is_private,
       p.like_count, p.dislike_count, p.comment_count, p.edited, p.created_at, p.updated_at
  FROM posts p
  JOIN post_reactions pr ON pr.post_id = p.id
 WHERE pr.user_id=$1 AND pr.kind=$2
 ORDER BY pr.created_at DESC;`
	return r.queryMany(ctx, tx, q, userID, string(kind))
}

func (r *postRepo) queryMany(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Post, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	if err := row.Scan(&p.ID, &p.PosterID, &p.Username, &p.Title, &p.Content, &p.IsPrivate, &p.LikeCount, &p.DislikeCount, &p.CommentCount, &p.Edited, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}
