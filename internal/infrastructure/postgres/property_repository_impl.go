package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
)

type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

const propertyCols = `id, owner_id, title, description, property_type, price, location,
	latitude, longitude, images, status, created_at`

func scanProperty(row pgx.Row) (*entity.PropertyListing, error) {
	p := &entity.PropertyListing{}
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType,
		&p.Price, &p.Location, &p.Latitude, &p.Longitude, &p.Images, &p.Status, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *entity.PropertyListing) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO property_listings
			(owner_id, title, description, property_type, price, location, latitude, longitude, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, p.OwnerID, p.Title, p.Description, p.PropertyType, p.Price, p.Location,
		p.Latitude, p.Longitude, p.Images, p.Status)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*entity.PropertyListing, error) {
	return scanProperty(r.pool.QueryRow(ctx, `
		SELECT `+propertyCols+` FROM property_listings WHERE id = $1
	`, id))
}

func (r *PropertyRepository) Update(ctx context.Context, p *entity.PropertyListing) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE property_listings
		SET title = $1, description = $2, property_type = $3, price = $4,
			location = $5, latitude = $6, longitude = $7, images = $8, status = $9
		WHERE id = $10
	`, p.Title, p.Description, p.PropertyType, p.Price, p.Location,
		p.Latitude, p.Longitude, p.Images, p.Status, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM property_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) List(ctx context.Context, f repository.ListingFilter) ([]*entity.PropertyListing, error) {
	q := `SELECT ` + propertyCols + ` FROM property_listings WHERE 1=1`
	args := []any{}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		q += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.MinPrice > 0 {
		args = append(args, f.MinPrice)
		q += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		q += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.PropertyListing
	for rows.Next() {
		p := &entity.PropertyListing{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType,
			&p.Price, &p.Location, &p.Latitude, &p.Longitude, &p.Images, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)
