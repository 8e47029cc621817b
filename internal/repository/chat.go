package repository

import (
	"context"

	"github.com/todochat/todochat/internal/model"
)

// ChatMessageRepository is an append-only conversation log. Messages
// are only ever removed in bulk by DeleteAll.
type ChatMessageRepository interface {
	Append(ctx context.Context, userID int64, role, content string) (model.ChatMessage, error)
	ListByUser(ctx context.Context, userID int64) ([]model.ChatMessage, error)
	DeleteAll(ctx context.Context, userID int64) error
}
