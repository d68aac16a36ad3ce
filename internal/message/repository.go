package message

import (
	"context"
	"database/sql"

	"farmlink-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListForUser(ctx context.Context, userID string) ([]Message, error)
	Thread(ctx context.Context, userID, counterpartyID string) ([]Message, error)
	MarkRead(ctx context.Context, ids []string) error
	Insert(ctx context.Context, m *Message) (*Message, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const messageColumns = `id, sender_id, receiver_id, content, timestamp, is_read, created_at`

func scanMessages(rows *sql.Rows) ([]Message, error) {
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content,
			&m.Timestamp, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListForUser returns every message the user sent or received, newest first.
func (r *repository) ListForUser(ctx context.Context, userID string) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY timestamp DESC`, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list messages",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return scanMessages(rows)
}

// Thread returns the conversation between two users in chronological order.
func (r *repository) Thread(ctx context.Context, userID, counterpartyID string) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY timestamp ASC`, userID, counterpartyID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to load thread",
			zap.String("user_id", userID),
			zap.String("counterparty_id", counterpartyID),
			zap.Error(err),
		)
		return nil, err
	}
	return scanMessages(rows)
}

func (r *repository) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

func (r *repository) Insert(ctx context.Context, m *Message) (*Message, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content, timestamp, is_read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		m.SenderID, m.ReceiverID, m.Content, m.Timestamp, m.IsRead,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert message",
			zap.String("sender_id", m.SenderID),
			zap.Error(err),
		)
		return nil, err
	}
	return m, nil
}
