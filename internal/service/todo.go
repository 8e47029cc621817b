package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/todochat/todochat/internal/model"
	"github.com/todochat/todochat/internal/repository"
)

const maxTitleLen = 500

type CreateTodoInput struct {
	Title       string
	Description string
}

type UpdateTodoInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

type TodoService struct {
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) Create(ctx context.Context, userID int64, input CreateTodoInput) (model.Todo, error) {
	if input.Title == "" {
		return model.Todo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(input.Title) > maxTitleLen {
		return model.Todo{}, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLen)
	}

	todo := model.Todo{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return created, nil
}

func (s *TodoService) GetByID(ctx context.Context, userID, todoID int64) (model.Todo, error) {
	todo, err := s.repo.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, userID, todoID int64, input UpdateTodoInput) (model.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo for update: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Todo{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		if len(*input.Title) > maxTitleLen {
			return model.Todo{}, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLen)
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Completed != nil {
		existing.Completed = *input.Completed
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) error {
	err := s.repo.Delete(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *TodoService) List(ctx context.Context, params model.TodoListParams) ([]model.Todo, error) {
	todos, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}
