package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/key2key/backend/internal/application"
	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error { r.users[u.ID] = u; return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *entity.User) error { r.users[u.ID] = u; return nil }

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, _ repository.UserFilter) ([]*entity.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Count(_ context.Context, _ repository.UserFilter) (int64, error) {
	return 0, nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		u.Verified = true
	}
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type authFixture struct {
	router *gin.Engine
	jwt    *helpers.JWTManager
	repo   *stubUserRepo
}

func newAuthTestRouter(t *testing.T, verified bool) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubUserRepo{users: map[string]*entity.User{
		"user-1": {ID: "user-1", Email: "u@example.com", Role: entity.RoleBuyer, Verified: verified},
	}}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	auth := application.NewAuthService(repo, helpers.NewPasswordHasher(4), jwt, logger)

	r := gin.New()
	r.GET("/protected", RequireAuth(auth), ActiveUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return &authFixture{router: r, jwt: jwt, repo: repo}
}

func doProtected(f *authFixture, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthSuccess(t *testing.T) {
	f := newAuthTestRouter(t, true)
	token, _, err := f.jwt.Generate("user-1", "u@example.com")
	require.NoError(t, err)

	w := doProtected(f, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRequireAuthRejects(t *testing.T) {
	f := newAuthTestRouter(t, true)
	valid, _, err := f.jwt.Generate("user-1", "u@example.com")
	require.NoError(t, err)

	otherSigner := helpers.NewJWTManager("other-secret", time.Hour)
	forged, _, err := otherSigner.Generate("user-1", "u@example.com")
	require.NoError(t, err)

	expiredSigner := helpers.NewJWTManager("mw-secret", -time.Minute)
	expired, _, err := expiredSigner.Generate("user-1", "u@example.com")
	require.NoError(t, err)

	cases := []struct {
		name, header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"bearer without token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
		{"truncated token", "Bearer " + valid[:len(valid)-4]},
		{"wrong signature", "Bearer " + forged},
		{"expired token", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doProtected(f, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.Contains(t, w.Body.String(), "could not validate credentials")
		})
	}
}

func TestRequireAuthDeletedUser(t *testing.T) {
	f := newAuthTestRouter(t, true)
	token, _, err := f.jwt.Generate("user-1", "u@example.com")
	require.NoError(t, err)

	require.NoError(t, f.repo.Delete(context.Background(), "user-1"))
	w := doProtected(f, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestActiveUserRejectsUnverified(t *testing.T) {
	f := newAuthTestRouter(t, false)
	token, _, err := f.jwt.Generate("user-1", "u@example.com")
	require.NoError(t, err)

	w := doProtected(f, "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "inactive user")
}
