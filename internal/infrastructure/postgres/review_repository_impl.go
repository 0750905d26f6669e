package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (reviewer_id, target_user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, rv.ReviewerID, rv.TargetUserID, rv.Rating, rv.Comment)
	return row.Scan(&rv.ID, &rv.CreatedAt)
}

func (r *ReviewRepository) ListByTarget(ctx context.Context, targetUserID string, limit, offset int) ([]*entity.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, reviewer_id, target_user_id, rating, comment, created_at
		FROM reviews
		WHERE target_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, targetUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Review
	for rows.Next() {
		rv := &entity.Review{}
		if err := rows.Scan(&rv.ID, &rv.ReviewerID, &rv.TargetUserID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepository) ExistsByReviewerAndTarget(ctx context.Context, reviewerID, targetUserID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM reviews WHERE reviewer_id = $1 AND target_user_id = $2)
	`, reviewerID, targetUserID).Scan(&exists)
	return exists, err
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
