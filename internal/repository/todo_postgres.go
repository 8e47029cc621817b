package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/todochat/todochat/internal/model"
)

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodo(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

const todoColumns = "id, user_id, title, description, completed, created_at, updated_at"

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING ` + todoColumns

	row := r.db.QueryRowContext(ctx, query, todo.UserID, todo.Title, todo.Description)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, todoID, userID)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + todoColumns

	row := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Completed, todo.ID, todo.UserID,
	)

	return scanTodo(row)
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, userID, todoID int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PostgresTodoRepository) List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error) {
	args := []any{params.UserID}
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1`

	if params.Completed != nil {
		query += " AND completed = $2"
		args = append(args, *params.Completed)
	}

	query += " ORDER BY id DESC"

	return r.queryTodos(ctx, query, args...)
}

func (r *PostgresTodoRepository) ListByUser(ctx context.Context, userID int64) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY id ASC`

	return r.queryTodos(ctx, query, userID)
}

func (r *PostgresTodoRepository) Search(ctx context.Context, userID int64, query string) ([]model.Todo, error) {
	q := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2)
		ORDER BY id ASC`

	return r.queryTodos(ctx, q, userID, "%"+query+"%")
}

func (r *PostgresTodoRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all todos: %w", err)
	}
	return result.RowsAffected()
}

func (r *PostgresTodoRepository) DeleteByCompleted(ctx context.Context, userID int64, completed bool) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE user_id = $1 AND completed = $2`, userID, completed)
	if err != nil {
		return 0, fmt.Errorf("failed to delete filtered todos: %w", err)
	}
	return result.RowsAffected()
}

func (r *PostgresTodoRepository) SetCompletedAll(ctx context.Context, userID int64, completed bool) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET completed = $2, updated_at = now() WHERE user_id = $1`, userID, completed)
	if err != nil {
		return 0, fmt.Errorf("failed to update all todos: %w", err)
	}
	return result.RowsAffected()
}

func (r *PostgresTodoRepository) queryTodos(ctx context.Context, query string, args ...any) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodo(row scannable) (model.Todo, error) {
	var t model.Todo
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description,
		&t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	return t, nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*PostgresTodoRepository)(nil)
