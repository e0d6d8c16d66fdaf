// Package todos provides the business operations on todo items.
package todos

import (
	"context"

	"todo-backend/internal/domain"
	"todo-backend/internal/observability"
	"todo-backend/internal/repository"
	appErrors "todo-backend/pkg/errors"

	"go.uber.org/zap"
)

// ErrTodoNotFound is returned for ids that do not resolve to a todo.
var ErrTodoNotFound = appErrors.NewNotFound("Todo not found")

// Service defines the todo operations exposed to the HTTP layer.
type Service interface {
	// Create stores a new todo. userID is empty for anonymous callers.
	Create(ctx context.Context, data domain.TodoCreate) (*domain.Todo, error)

	Get(ctx context.Context, id string) (*domain.Todo, error)

	// List pages through all todos. cursor is opaque and empty for the
	// first page.
	List(ctx context.Context, limit int, cursor string) (repository.Page[domain.Todo], error)

	// ListMine pages through the todos owned by userID, newest first.
	ListMine(ctx context.Context, userID string, limit int, cursor string) (repository.Page[domain.Todo], error)

	Update(ctx context.Context, id string, changes domain.TodoUpdate) (*domain.Todo, error)

	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    repository.TodoRepository
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewService creates the todo service. metrics may be nil.
func NewService(repo repository.TodoRepository, logger *zap.Logger, metrics *observability.Collector) Service {
	return &service{repo: repo, logger: logger, metrics: metrics}
}

func (s *service) Create(ctx context.Context, data domain.TodoCreate) (*domain.Todo, error) {
	todo, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	s.metrics.TodoCreated()
	s.logger.Debug("todo created", zap.String("todo_id", todo.ID), zap.String("user_id", todo.UserID))
	return todo, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) (repository.Page[domain.Todo], error) {
	return s.repo.List(ctx, limit, cursor)
}

func (s *service) ListMine(ctx context.Context, userID string, limit int, cursor string) (repository.Page[domain.Todo], error) {
	return s.repo.ListByUser(ctx, userID, limit, cursor)
}

// Update leaves the existence check to the repository, which reports a
// missing id as not found even for an empty change-set.
func (s *service) Update(ctx context.Context, id string, changes domain.TodoUpdate) (*domain.Todo, error) {
	todo, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		if appErrors.IsNotFound(err) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.TodoDeleted()
	return nil
}
