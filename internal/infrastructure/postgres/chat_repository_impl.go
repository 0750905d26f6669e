package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/key2key/backend/internal/domain/entity"
	"github.com/key2key/backend/internal/domain/repository"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// GetOrCreateThread normalizes the pair ordering so (a,b) and (b,a) map to
// the same row.
func (r *ChatRepository) GetOrCreateThread(ctx context.Context, userA, userB string) (*entity.ChatThread, error) {
	if userB < userA {
		userA, userB = userB, userA
	}
	t := &entity.ChatThread{UserA: userA, UserB: userB}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_threads (user_a, user_b)
		VALUES ($1, $2)
		ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a
		RETURNING id, created_at
	`, userA, userB).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ChatRepository) GetThread(ctx context.Context, id string) (*entity.ChatThread, error) {
	t := &entity.ChatThread{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_a, user_b, created_at FROM chat_threads WHERE id = $1
	`, id).Scan(&t.ID, &t.UserA, &t.UserB, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ChatRepository) AddMessage(ctx context.Context, m *entity.ChatMessage) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (thread_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at
	`, m.ThreadID, m.SenderID, m.Content)
	return row.Scan(&m.ID, &m.SentAt)
}

func (r *ChatRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]*entity.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, thread_id, sender_id, content, sent_at
		FROM chat_messages
		WHERE thread_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3
	`, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.ChatMessage
	for rows.Next() {
		m := &entity.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ repository.ChatRepository = (*ChatRepository)(nil)
