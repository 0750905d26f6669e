package repository

import (
	"context"
	"errors"

	"github.com/key2key/backend/internal/domain/entity"
)

// ErrNotFound is returned by any repository when no row matches.
var ErrNotFound = errors.New("not found")

// UserFilter narrows admin listing queries.
type UserFilter struct {
	Role     *entity.Role
	Verified *bool
	Limit    int
	Offset   int
}

// UserRepository defines user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}
