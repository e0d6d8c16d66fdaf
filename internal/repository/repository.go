// Package repository defines the storage contract for todos and users and
// the partial-update builder shared by its implementations.
//
// Implementations must treat absence as a normal outcome: FindByID and
// FindByEmail return a nil entity and a nil error when nothing matches.
//
// Update and Delete are not atomic with the existence check that callers
// perform first. An item removed between the check and the mutation is an
// accepted race; the store only guarantees per-item atomicity.
package repository

import (
	"context"

	"todo-backend/internal/domain"
)

const (
	// DefaultPageSize is used when a caller passes a non-positive limit.
	DefaultPageSize = 50
	// MaxPageSize caps a single page.
	MaxPageSize = 1000
)

// EffectiveLimit clamps limit into [1, MaxPageSize], substituting the
// default for non-positive values.
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// Page is one slice of a listing. Cursor is empty on the last page and must
// be passed back unmodified to resume.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// HasMore reports whether another page can be requested.
func (p Page[T]) HasMore() bool {
	return p.Cursor != ""
}

// TodoRepository is the persistence contract for todos.
type TodoRepository interface {
	Create(ctx context.Context, data domain.TodoCreate) (*domain.Todo, error)
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	Update(ctx context.Context, id string, changes domain.TodoUpdate) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int, cursor string) (Page[domain.Todo], error)
	ListByUser(ctx context.Context, userID string, limit int, cursor string) (Page[domain.Todo], error)
}

// UserRepository is the persistence contract for users.
type UserRepository interface {
	Create(ctx context.Context, data domain.UserCreate) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, changes domain.UserUpdate) (*domain.User, error)
}
