package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const txCols = `id, buyer_id, listing_id, listing_kind, amount, payment_gateway,
	payment_status, reference, created_at`

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions
			(buyer_id, listing_id, listing_kind, amount, payment_gateway, payment_status, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, t.BuyerID, t.ListingID, t.ListingKind, t.Amount, t.Gateway, t.Status, t.Reference)
	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	err := r.pool.QueryRow(ctx, `
		SELECT `+txCols+` FROM transactions WHERE id = $1
	`, id).Scan(&t.ID, &t.BuyerID, &t.ListingID, &t.ListingKind, &t.Amount,
		&t.Gateway, &t.Status, &t.Reference, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+txCols+` FROM transactions
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Transaction
	for rows.Next() {
		t := &entity.Transaction{}
		if err := rows.Scan(&t.ID, &t.BuyerID, &t.ListingID, &t.ListingKind, &t.Amount,
			&t.Gateway, &t.Status, &t.Reference, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE transactions SET payment_status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
