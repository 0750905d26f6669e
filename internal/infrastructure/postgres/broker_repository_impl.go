package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
)

type BrokerRepository struct {
	pool *pgxpool.Pool
}

func NewBrokerRepository(pool *pgxpool.Pool) *BrokerRepository {
	return &BrokerRepository{pool: pool}
}

const brokerCols = `id, user_id, license_number, bio, years_experience, is_verified, created_at`

func scanBroker(row pgx.Row) (*entity.BrokerProfile, error) {
	b := &entity.BrokerProfile{}
	if err := row.Scan(&b.ID, &b.UserID, &b.LicenseNumber, &b.Bio,
		&b.YearsExperience, &b.IsVerified, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BrokerRepository) Create(ctx context.Context, b *entity.BrokerProfile) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO broker_profiles (user_id, license_number, bio, years_experience, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, b.UserID, b.LicenseNumber, b.Bio, b.YearsExperience, b.IsVerified)
	return row.Scan(&b.ID, &b.CreatedAt)
}

func (r *BrokerRepository) GetByID(ctx context.Context, id string) (*entity.BrokerProfile, error) {
	return scanBroker(r.pool.QueryRow(ctx, `
		SELECT `+brokerCols+` FROM broker_profiles WHERE id = $1
	`, id))
}

func (r *BrokerRepository) GetByUserID(ctx context.Context, userID string) (*entity.BrokerProfile, error) {
	return scanBroker(r.pool.QueryRow(ctx, `
		SELECT `+brokerCols+` FROM broker_profiles WHERE user_id = $1
	`, userID))
}

func (r *BrokerRepository) Update(ctx context.Context, b *entity.BrokerProfile) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE broker_profiles
		SET license_number = $1, bio = $2, years_experience = $3, is_verified = $4
		WHERE id = $5
	`, b.LicenseNumber, b.Bio, b.YearsExperience, b.IsVerified, b.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BrokerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM broker_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ repository.BrokerRepository = (*BrokerRepository)(nil)
