package application

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/helpers"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}, byEmail: map[string]*entity.User{}}
}

func (r *fakeUserRepo) add(u *entity.User) *entity.User {
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("u-%d", r.nextID)
	}
	u.CreatedAt = time.Now()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ repository.UserFilter) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ repository.UserFilter) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Verified = true
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *helpers.PasswordHasher) {
	t.Helper()
	repo := newFakeUserRepo()
	hasher := helpers.NewPasswordHasher(4)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, hasher, jwt, quietLogger()), repo, hasher
}

func seedUser(t *testing.T, repo *fakeUserRepo, hasher *helpers.PasswordHasher, email, password string, verified bool) *entity.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	return repo.add(&entity.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleBuyer,
		Verified:     verified,
	})
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	want := seedUser(t, repo, hasher, "ok@example.com", "correct-horse", true)

	got, err := svc.Authenticate(context.Background(), "ok@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	seedUser(t, repo, hasher, "verified@example.com", "right-password", true)
	seedUser(t, repo, hasher, "unverified@example.com", "right-password", false)

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "whatever"},
		{"unverified account", "unverified@example.com", "right-password"},
		{"wrong password", "verified@example.com", "wrong-password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginIssuesBearerToken(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	u := seedUser(t, repo, hasher, "login@example.com", "pass-12345", true)

	res, err := svc.Login(context.Background(), "login@example.com", "pass-12345")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, res.ExpiresAt.After(time.Now()))
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, u.Email, res.User.Email)

	claims, err := svc.JWT.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, u.Email, claims.Email)
}

func TestResolveTokenRoundtrip(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	u := seedUser(t, repo, hasher, "resolve@example.com", "pass-12345", true)

	res, err := svc.Login(context.Background(), "resolve@example.com", "pass-12345")
	require.NoError(t, err)

	got, err := svc.ResolveToken(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestResolveTokenRejections(t *testing.T) {
	svc, repo, hasher := newAuthFixture(t)
	u := seedUser(t, repo, hasher, "gone@example.com", "pass-12345", true)

	res, err := svc.Login(context.Background(), "gone@example.com", "pass-12345")
	require.NoError(t, err)

	_, err = svc.ResolveToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// token for a deleted account must stop working
	require.NoError(t, repo.Delete(context.Background(), u.ID))
	_, err = svc.ResolveToken(context.Background(), res.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveTokenExpired(t *testing.T) {
	repo := newFakeUserRepo()
	hasher := helpers.NewPasswordHasher(4)
	jwt := helpers.NewJWTManager("test-secret", -time.Minute)
	svc := NewAuthService(repo, hasher, jwt, quietLogger())
	u := seedUser(t, repo, hasher, "expired@example.com", "pass-12345", true)

	token, _, err := jwt.Generate(u.ID, u.Email)
	require.NoError(t, err)

	_, err = svc.ResolveToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
