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

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleCols = `id, owner_id, title, make, model, year, price, mileage,
	fuel_type, transmission, images, status, created_at`

func scanVehicle(row pgx.Row) (*entity.VehicleListing, error) {
	v := &entity.VehicleListing{}
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Make, &v.Model, &v.Year,
		&v.Price, &v.Mileage, &v.FuelType, &v.Transmission, &v.Images, &v.Status, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *entity.VehicleListing) error {
	if v.Images == nil {
		v.Images = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vehicle_listings
			(owner_id, title, make, model, year, price, mileage, fuel_type, transmission, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, v.OwnerID, v.Title, v.Make, v.Model, v.Year, v.Price, v.Mileage,
		v.FuelType, v.Transmission, v.Images, v.Status)
	return row.Scan(&v.ID, &v.CreatedAt)
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*entity.VehicleListing, error) {
	return scanVehicle(r.pool.QueryRow(ctx, `
		SELECT `+vehicleCols+` FROM vehicle_listings WHERE id = $1
	`, id))
}

func (r *VehicleRepository) Update(ctx context.Context, v *entity.VehicleListing) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE vehicle_listings
		SET title = $1, make = $2, model = $3, year = $4, price = $5,
			mileage = $6, fuel_type = $7, transmission = $8, images = $9, status = $10
		WHERE id = $11
	`, v.Title, v.Make, v.Model, v.Year, v.Price, v.Mileage,
		v.FuelType, v.Transmission, v.Images, v.Status, v.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM vehicle_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VehicleRepository) List(ctx context.Context, f repository.ListingFilter) ([]*entity.VehicleListing, error) {
	q := `SELECT ` + vehicleCols + ` FROM vehicle_listings WHERE 1=1`
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

	var out []*entity.VehicleListing
	for rows.Next() {
		v := &entity.VehicleListing{}
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Make, &v.Model, &v.Year,
			&v.Price, &v.Mileage, &v.FuelType, &v.Transmission, &v.Images, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ repository.VehicleRepository = (*VehicleRepository)(nil)
