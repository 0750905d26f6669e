package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/pkg/helpers"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	hasher := helpers.NewPasswordHasher(4)
	svc := NewUserService(repo, hasher, nil, nil, quietLogger(), "https://app.test/verify", "https://app.test/reset", false)
	return svc, repo
}

func TestRegisterCreatesUnverifiedBuyer(t *testing.T) {
	svc, repo := newUserFixture(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: "New User",
		Email:    "new@example.com",
		Password: "longenough1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBuyer, u.Role)
	assert.False(t, u.Verified)
	assert.NotEqual(t, "longenough1", u.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "First",
		Email:    "dup@example.com",
		Password: "longenough1",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		FullName: "Second",
		Email:    "dup@example.com",
		Password: "longenough2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterKeepsRequestedRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Seller",
		Email:    "seller@example.com",
		Password: "longenough1",
		Role:     entity.RoleSeller,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSeller, u.Role)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, repo := newUserFixture(t)
	u := repo.add(&entity.User{FullName: "Old Name", Email: "p@example.com", Phone: "+111", Verified: true})

	got, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{FullName: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.FullName)
	assert.Equal(t, "+111", got.Phone)
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _ := newUserFixture(t)
	err := svc.DeleteUser(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
