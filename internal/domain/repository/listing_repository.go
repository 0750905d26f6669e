package repository

import (
	"context"

	"github.com/key2key/backend/internal/domain/entity"
)

// ListingFilter narrows listing queries; zero values mean no constraint.
type ListingFilter struct {
	OwnerID  string
	Status   entity.ListingStatus
	MinPrice float64
	MaxPrice float64
	Limit    int
	Offset   int
}

type PropertyRepository interface {
	Create(ctx context.Context, p *entity.PropertyListing) error
	GetByID(ctx context.Context, id string) (*entity.PropertyListing, error)
	Update(ctx context.Context, p *entity.PropertyListing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListingFilter) ([]*entity.PropertyListing, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *entity.VehicleListing) error
	GetByID(ctx context.Context, id string) (*entity.VehicleListing, error)
	Update(ctx context.Context, v *entity.VehicleListing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListingFilter) ([]*entity.VehicleListing, error)
}
