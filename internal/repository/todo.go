package repository

import (
	"context"

	"github.com/todochat/todochat/internal/model"
)

type TodoRepository interface {
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error)
	Update(ctx context.Context, todo model.Todo) (model.Todo, error)
	Delete(ctx context.Context, userID, todoID int64) error

	// List serves the REST surface: newest first, optional completed filter.
	List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error)

	// ListByUser returns every todo for the user ordered by ascending id.
	// The chat executor derives local numbers from this order, so it must
	// never change.
	ListByUser(ctx context.Context, userID int64) ([]model.Todo, error)

	// Search matches the substring case-insensitively against title and
	// description, ordered by ascending id.
	Search(ctx context.Context, userID int64, query string) ([]model.Todo, error)

	DeleteAll(ctx context.Context, userID int64) (int64, error)
	DeleteByCompleted(ctx context.Context, userID int64, completed bool) (int64, error)
	SetCompletedAll(ctx context.Context, userID int64, completed bool) (int64, error)
}
