package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")
)

// AuthService verifies credentials and issues access tokens. It holds no
// mutable state; the secret and hashing cost live in the injected helpers.
type AuthService struct {
	Users  repository.UserRepository
	Hasher *helpers.PasswordHasher
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Hasher: hasher, JWT: jwt, Logger: logger}
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresAt   time.Time         `json:"expires_at"`
	User        entity.PublicUser `json:"user"`
}

// Authenticate validates email/password against the stored credential.
// Unknown email, unverified account and wrong password all collapse into
// ErrInvalidCredentials so the response cannot be used to enumerate accounts;
// the log line records which case it was.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		s.Logger.WithField("email", email).Warn("auth failed: user not found")
		return nil, ErrInvalidCredentials
	}
	if !u.Verified {
		s.Logger.WithField("email", email).Warn("auth failed: user not verified")
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		s.Logger.WithField("email", email).Warn("auth failed: invalid password")
		return nil, ErrInvalidCredentials
	}
	s.Logger.WithField("email", email).Info("user authenticated")
	return u, nil
}

// Login runs the credential check and, on success, issues a bearer token
// carrying the user id and email. Token issuance is a pure computation; no
// session state is persisted anywhere.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, exp, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   exp,
		User:        u.Public(),
	}, nil
}

// ResolveToken maps a raw bearer token back to a live user record. Any decode
// failure, a missing subject, or a subject whose account no longer exists is
// reported as ErrInvalidCredentials without distinguishing the cause. Tokens
// are not proactively invalidated when an account is deleted, so the lookup
// here is what closes that gap.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		s.Logger.WithError(err).Warn("token rejected")
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.Subject)
	if err != nil || u == nil {
		s.Logger.WithField("user_id", claims.Subject).Warn("token user not found")
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
