package repository

import (
	"context"

	"github.com/key2key/backend/internal/domain/entity"
)

type BrokerRepository interface {
	Create(ctx context.Context, b *entity.BrokerProfile) error
	GetByID(ctx context.Context, id string) (*entity.BrokerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.BrokerProfile, error)
	Update(ctx context.Context, b *entity.BrokerProfile) error
	Delete(ctx context.Context, id string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status entity.PaymentStatus) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	ListByTarget(ctx context.Context, targetUserID string, limit, offset int) ([]*entity.Review, error)
	ExistsByReviewerAndTarget(ctx context.Context, reviewerID, targetUserID string) (bool, error)
}

type ChatRepository interface {
	// GetOrCreateThread returns the two-party thread for the pair, creating
	// it if absent. The pair is unordered.
	GetOrCreateThread(ctx context.Context, userA, userB string) (*entity.ChatThread, error)
	GetThread(ctx context.Context, id string) (*entity.ChatThread, error)
	AddMessage(ctx context.Context, m *entity.ChatMessage) error
	ListMessages(ctx context.Context, threadID string, limit, offset int) ([]*entity.ChatMessage, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type AuditRepository interface {
	Insert(ctx context.Context, e *entity.AuditEntry) error
}
