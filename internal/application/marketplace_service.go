package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
	"github.com/key2key/backend/pkg/helpers"
	"github.com/key2key/backend/pkg/mailer"
)

var (
	ErrBrokerExists     = errors.New("broker profile already exists")
	ErrBrokerNotFound   = errors.New("broker profile not found")
	ErrDuplicateReview  = errors.New("review already exists for this user")
	ErrSelfReview       = errors.New("cannot review yourself")
	ErrThreadNotFound   = errors.New("chat thread not found")
	ErrNotThreadMember  = errors.New("not a participant of this thread")
	ErrTransactionFound = errors.New("transaction not found")
)

// MarketplaceService covers the social and payment side of the marketplace:
// broker profiles, transactions, reviews, chat and notifications.
type MarketplaceService struct {
	Users           repository.UserRepository
	Brokers         repository.BrokerRepository
	Transactions    repository.TransactionRepository
	Reviews         repository.ReviewRepository
	Chats           repository.ChatRepository
	Notifications   repository.NotificationRepository
	Listings        *ListingService
	Pub             *helpers.RabbitPublisher
	Logger          *logrus.Logger
	MailSendEnabled bool
}

type BrokerInput struct {
	LicenseNumber   string
	Bio             string
	YearsExperience int
}

func (s *MarketplaceService) CreateBrokerProfile(ctx context.Context, userID string, in BrokerInput) (*entity.BrokerProfile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if u.Role != entity.RoleBroker && u.Role != entity.RoleAdmin {
		return nil, ErrForbidden
	}
	if _, err := s.Brokers.GetByUserID(ctx, userID); err == nil {
		return nil, ErrBrokerExists
	}
	b := &entity.BrokerProfile{
		UserID:          userID,
		LicenseNumber:   in.LicenseNumber,
		Bio:             in.Bio,
		YearsExperience: in.YearsExperience,
	}
	if err := s.Brokers.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *MarketplaceService) GetBrokerProfile(ctx context.Context, userID string) (*entity.BrokerProfile, error) {
	b, err := s.Brokers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBrokerNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *MarketplaceService) UpdateBrokerProfile(ctx context.Context, userID string, in BrokerInput) (*entity.BrokerProfile, error) {
	b, err := s.GetBrokerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.LicenseNumber != "" {
		b.LicenseNumber = in.LicenseNumber
	}
	if in.Bio != "" {
		b.Bio = in.Bio
	}
	if in.YearsExperience > 0 {
		b.YearsExperience = in.YearsExperience
	}
	if err := s.Brokers.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *MarketplaceService) DeleteBrokerProfile(ctx context.Context, userID string) error {
	b, err := s.GetBrokerProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.Brokers.Delete(ctx, b.ID)
}

type TransactionInput struct {
	ListingID   string
	ListingKind entity.ListingKind
	Gateway     entity.PaymentGateway
}

// CreateTransaction opens a pending payment for a listing. The amount is read
// from the listing itself, never from the client.
func (s *MarketplaceService) CreateTransaction(ctx context.Context, buyerID string, in TransactionInput) (*entity.Transaction, error) {
	var amount float64
	var ownerID string
	switch in.ListingKind {
	case entity.KindProperty:
		p, err := s.Listings.GetProperty(ctx, in.ListingID)
		if err != nil {
			return nil, err
		}
		amount, ownerID = p.Price, p.OwnerID
	case entity.KindVehicle:
		v, err := s.Listings.GetVehicle(ctx, in.ListingID)
		if err != nil {
			return nil, err
		}
		amount, ownerID = v.Price, v.OwnerID
	default:
		return nil, fmt.Errorf("unknown listing kind %q", in.ListingKind)
	}
	if ownerID == buyerID {
		return nil, ErrForbidden
	}

	ref, err := genToken(8)
	if err != nil {
		return nil, err
	}
	t := &entity.Transaction{
		BuyerID:     buyerID,
		ListingID:   in.ListingID,
		ListingKind: in.ListingKind,
		Amount:      amount,
		Gateway:     in.Gateway,
		Status:      entity.PaymentPending,
		Reference:   "K2K-" + ref,
	}
	if err := s.Transactions.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *MarketplaceService) GetTransaction(ctx context.Context, id, callerID string) (*entity.Transaction, error) {
	t, err := s.Transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionFound
		}
		return nil, err
	}
	if t.BuyerID != callerID {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *MarketplaceService) ListTransactions(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Transactions.ListByBuyer(ctx, buyerID, limit, offset)
}

// CompleteTransaction settles a pending payment. On success the buyer gets a
// notification and a receipt email job.
func (s *MarketplaceService) CompleteTransaction(ctx context.Context, id, callerID string, status entity.PaymentStatus) (*entity.Transaction, error) {
	t, err := s.GetTransaction(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if t.Status != entity.PaymentPending {
		return t, nil
	}
	if status != entity.PaymentSuccess && status != entity.PaymentFailed {
		return nil, fmt.Errorf("invalid payment status %q", status)
	}
	if err := s.Transactions.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	t.Status = status

	if status == entity.PaymentSuccess {
		s.notify(ctx, t.BuyerID, entity.NotifyTransactionSuccess, "Payment received",
			fmt.Sprintf("Your payment of %.2f via %s was successful.", t.Amount, t.Gateway), "/transactions/"+t.ID)
		s.sendReceipt(ctx, t)
	}
	return t, nil
}

func (s *MarketplaceService) sendReceipt(ctx context.Context, t *entity.Transaction) {
	if !s.MailSendEnabled || s.Pub == nil {
		return
	}
	buyer, err := s.Users.GetByID(ctx, t.BuyerID)
	if err != nil {
		return
	}
	job := &mailer.EmailJob{
		To:   buyer.Email,
		Kind: mailer.KindReceipt,
		Data: map[string]string{
			"Name":          buyer.FullName,
			"TransactionID": t.Reference,
			"Amount":        fmt.Sprintf("%.2f", t.Amount),
			"Currency":      "ETB",
			"Gateway":       string(t.Gateway),
			"Status":        string(t.Status),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("tx_id", t.ID).Warn("failed to enqueue receipt email")
	}
}

type ReviewInput struct {
	TargetUserID string
	Rating       int
	Comment      string
}

func (s *MarketplaceService) CreateReview(ctx context.Context, reviewerID string, in ReviewInput) (*entity.Review, error) {
	if reviewerID == in.TargetUserID {
		return nil, ErrSelfReview
	}
	if _, err := s.Users.GetByID(ctx, in.TargetUserID); err != nil {
		return nil, ErrUserNotFound
	}
	exists, err := s.Reviews.ExistsByReviewerAndTarget(ctx, reviewerID, in.TargetUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}
	r := &entity.Review{
		ReviewerID:   reviewerID,
		TargetUserID: in.TargetUserID,
		Rating:       in.Rating,
		Comment:      in.Comment,
	}
	if err := s.Reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *MarketplaceService) ListReviews(ctx context.Context, targetUserID string, limit, offset int) ([]*entity.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Reviews.ListByTarget(ctx, targetUserID, limit, offset)
}

// SendMessage appends a message to the thread between sender and recipient,
// creating the thread on first contact.
func (s *MarketplaceService) SendMessage(ctx context.Context, senderID, recipientID, content string) (*entity.ChatMessage, error) {
	if senderID == recipientID {
		return nil, ErrForbidden
	}
	if _, err := s.Users.GetByID(ctx, recipientID); err != nil {
		return nil, ErrUserNotFound
	}
	th, err := s.Chats.GetOrCreateThread(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	m := &entity.ChatMessage{
		ThreadID: th.ID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.Chats.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	s.notify(ctx, recipientID, entity.NotifyNewMessage, "New message",
		"You have a new message.", "/chat/"+th.ID)
	return m, nil
}

func (s *MarketplaceService) ListMessages(ctx context.Context, threadID, callerID string, limit, offset int) ([]*entity.ChatMessage, error) {
	th, err := s.Chats.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	if th.UserA != callerID && th.UserB != callerID {
		return nil, ErrNotThreadMember
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Chats.ListMessages(ctx, threadID, limit, offset)
}

func (s *MarketplaceService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *MarketplaceService) MarkNotificationRead(ctx context.Context, id, userID string) error {
	return s.Notifications.MarkRead(ctx, id, userID)
}

func (s *MarketplaceService) notify(ctx context.Context, userID string, typ entity.NotificationType, title, message, link string) {
	n := &entity.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := s.Notifications.Create(ctx, n); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("failed to create notification")
	}
}
