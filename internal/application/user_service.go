package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/helpers"
	"github.com/key2key/backend/pkg/mailer"
)

// Redis key helpers
func keyVerifyToken(t string) string { return "email:verify:token:" + t }
func keyResetToken(t string) string  { return "pwd:reset:token:" + t }

// UserService covers registration, email verification, password reset and
// profile operations.
type UserService struct {
	Users           repository.UserRepository
	Hasher          *helpers.PasswordHasher
	Redis           *redis.Client
	Pub             *helpers.RabbitPublisher
	Logger          *logrus.Logger
	VerifyEmailURL  string
	ResetPassURL    string
	MailSendEnabled bool
}

func NewUserService(users repository.UserRepository, hasher *helpers.PasswordHasher, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, verifyURL, resetURL string, mailEnabled bool) *UserService {
	return &UserService{
		Users:           users,
		Hasher:          hasher,
		Redis:           rdb,
		Pub:             pub,
		Logger:          logger,
		VerifyEmailURL:  verifyURL,
		ResetPassURL:    resetURL,
		MailSendEnabled: mailEnabled,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     entity.Role
}

// Register creates an unverified account and kicks off email verification.
// The account cannot log in until the verification token is confirmed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if existing, err := s.Users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleBuyer
	}
	u := &entity.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         role,
		Verified:     false,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")

	if err := s.sendVerification(ctx, u); err != nil {
		// Registration stands; the user can re-request verification later.
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verification mail not queued")
	}
	return u, nil
}

// InitVerification issues a fresh verification token for an existing account
// and queues the mail. Idempotent for already verified accounts.
func (s *UserService) InitVerification(ctx context.Context, userID string) (already bool, err error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return false, ErrUserNotFound
	}
	if u.Verified {
		return true, nil
	}
	return false, s.sendVerification(ctx, u)
}

func (s *UserService) sendVerification(ctx context.Context, u *entity.User) error {
	if s.Redis == nil {
		return errors.New("verification unavailable: redis not configured")
	}
	tok, err := genToken(32)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, keyVerifyToken(tok), u.ID, 24*time.Hour).Err(); err != nil {
		return err
	}
	link := s.VerifyEmailURL + "?token=" + tok
	if s.Pub != nil && s.MailSendEnabled {
		job := mailer.EmailJob{
			To:   u.Email,
			Kind: mailer.KindVerifyEmail,
			Data: map[string]string{"Name": u.FullName, "Link": link},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmVerification resolves a verification token and flips the account's
// verified flag.
func (s *UserService) ConfirmVerification(ctx context.Context, token string) error {
	if s.Redis == nil {
		return errors.New("verification unavailable: redis not configured")
	}
	uid, err := s.Redis.Get(ctx, keyVerifyToken(token)).Result()
	if err != nil || uid == "" {
		return ErrInvalidCredentials
	}
	if err := s.Users.SetVerified(ctx, uid); err != nil {
		return err
	}
	s.Redis.Del(ctx, keyVerifyToken(token))
	s.Logger.WithField("user_id", uid).Info("email verified")
	return nil
}

// InitPasswordReset issues a reset token for the account behind email.
// Unknown emails succeed silently so the endpoint cannot be used to probe for
// accounts; the attempt is still logged.
func (s *UserService) InitPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		s.Logger.WithField("email", email).Warn("reset requested for unknown email")
		return nil
	}
	if s.Redis == nil {
		return errors.New("reset unavailable: redis not configured")
	}
	tok, err := genToken(32)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, keyResetToken(tok), u.ID, 30*time.Minute).Err(); err != nil {
		return err
	}
	link := s.ResetPassURL + "?token=" + tok
	if s.Pub != nil && s.MailSendEnabled {
		job := mailer.EmailJob{
			To:   u.Email,
			Kind: mailer.KindResetPassword,
			Data: map[string]string{"Name": u.FullName, "Link": link},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmPasswordReset swaps the stored hash for the token's account.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if s.Redis == nil {
		return errors.New("reset unavailable: redis not configured")
	}
	uid, err := s.Redis.Get(ctx, keyResetToken(token)).Result()
	if err != nil || uid == "" {
		return ErrInvalidCredentials
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return err
	}
	s.Redis.Del(ctx, keyResetToken(token))
	s.Logger.WithField("user_id", uid).Info("password reset")
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	FullName string
	Phone    string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers is the admin-only listing with role/verified filters.
func (s *UserService) ListUsers(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	users, err := s.Users.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Users.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
