package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/todochat/todochat/internal/model"
)

type PostgresChatMessageRepository struct {
	db *sql.DB
}

func NewPostgresChatMessage(db *sql.DB) *PostgresChatMessageRepository {
	return &PostgresChatMessageRepository{db: db}
}

func (r *PostgresChatMessageRepository) Append(ctx context.Context, userID int64, role, content string) (model.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, role, content, created_at`

	var m model.ChatMessage
	err := r.db.QueryRowContext(ctx, query, userID, role, content).Scan(
		&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt,
	)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("failed to append chat message: %w", err)
	}
	return m, nil
}

func (r *PostgresChatMessageRepository) ListByUser(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	msgs := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}

	return msgs, nil
}

func (r *PostgresChatMessageRepository) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear chat messages: %w", err)
	}
	return nil
}

var _ ChatMessageRepository = (*PostgresChatMessageRepository)(nil)
