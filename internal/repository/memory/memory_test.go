package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"todo-backend/internal/domain"
	appErrors "todo-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock advances by step on every reading.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}

var epoch = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

func TestTodoRepository_CreateDefaults(t *testing.T) {
	repo := NewTodoRepository()

	todo, err := repo.Create(context.Background(), domain.TodoCreate{Title: "Buy milk"})

	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, domain.PriorityMedium, todo.Priority)
	assert.False(t, todo.Completed)
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
}

func TestTodoRepository_ReturnedValuesAreCopies(t *testing.T) {
	repo := NewTodoRepository()
	created, err := repo.Create(context.Background(), domain.TodoCreate{Title: "a", Tags: []string{"x"}})
	require.NoError(t, err)

	created.Tags[0] = "mutated"
	created.Title = "mutated"

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", found.Title)
	assert.Equal(t, []string{"x"}, found.Tags)
}

func TestTodoRepository_UpdateSemantics(t *testing.T) {
	repo := NewTodoRepository(WithClock(func() time.Time { return epoch }))
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.TodoCreate{Title: "Buy milk", Description: "2 litres"})
	require.NoError(t, err)

	t.Run("empty change-set leaves the item untouched", func(t *testing.T) {
		got, err := repo.Update(ctx, created.ID, domain.TodoUpdate{})
		require.NoError(t, err)
		assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
	})

	t.Run("only provided fields change and the timestamp advances", func(t *testing.T) {
		done := true
		got, err := repo.Update(ctx, created.ID, domain.TodoUpdate{Completed: &done})
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "2 litres", got.Description)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
		assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("missing id", func(t *testing.T) {
		title := "x"
		_, err := repo.Update(ctx, "nope", domain.TodoUpdate{Title: &title})
		assert.True(t, appErrors.IsNotFound(err))
	})
}

func TestTodoRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewTodoRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.TodoCreate{Title: "a"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTodoRepository_ListPagesCoverEverythingOnce(t *testing.T) {
	repo := NewTodoRepository(
		WithClock(steppingClock(epoch, time.Second)),
		WithIDGenerator(sequentialIDs("todo")),
	)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := repo.Create(ctx, domain.TodoCreate{Title: fmt.Sprintf("t%d", i)})
		require.NoError(t, err)
	}

	seen := map[string]int{}
	cursor := ""
	pages := 0
	for {
		page, err := repo.List(ctx, 3, cursor)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Items), 3)
		for _, todo := range page.Items {
			seen[todo.ID]++
		}
		pages++
		if !page.HasMore() {
			break
		}
		cursor = page.Cursor
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 7)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestTodoRepository_CursorSurvivesDeletion(t *testing.T) {
	repo := NewTodoRepository(
		WithClock(steppingClock(epoch, time.Second)),
		WithIDGenerator(sequentialIDs("todo")),
	)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := repo.Create(ctx, domain.TodoCreate{Title: "t"})
		require.NoError(t, err)
	}

	first, err := repo.List(ctx, 2, "")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first.Items[1].ID))

	second, err := repo.List(ctx, 2, first.Cursor)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, "todo-003", second.Items[0].ID)
}

func TestTodoRepository_InvalidCursor(t *testing.T) {
	repo := NewTodoRepository()

	_, err := repo.List(context.Background(), 10, "!!not-a-cursor!!")

	assert.True(t, appErrors.IsValidation(err))
}

func TestTodoRepository_ListByUserNewestFirst(t *testing.T) {
	repo := NewTodoRepository(
		WithClock(steppingClock(epoch, time.Second)),
		WithIDGenerator(sequentialIDs("todo")),
	)
	ctx := context.Background()
	for _, owner := range []string{"u1", "u2", "u1", ""} {
		_, err := repo.Create(ctx, domain.TodoCreate{Title: "t", UserID: owner})
		require.NoError(t, err)
	}

	page, err := repo.ListByUser(ctx, "u1", 10, "")

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "todo-003", page.Items[0].ID)
	assert.Equal(t, "todo-001", page.Items[1].ID)
	assert.False(t, page.HasMore())
}

func TestUserRepository_EmailLookupIsCaseInsensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.UserCreate{Email: "Ada@Example.com", FirstName: "Ada", LastName: "L", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.False(t, created.Verified)

	found, err := repo.FindByEmail(ctx, "ADA@EXAMPLE.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.FindByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_UpdateMovesEmailIndex(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.UserCreate{Email: "ada@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	email := "Countess@Example.com"
	updated, err := repo.Update(ctx, created.ID, domain.UserUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "countess@example.com", updated.Email)

	old, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Nil(t, old)

	moved, err := repo.FindByEmail(ctx, "countess@example.com")
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, created.ID, moved.ID)
}

func TestUserRepository_UpdateMissing(t *testing.T) {
	repo := NewUserRepository()

	_, err := repo.Update(context.Background(), "ghost", domain.UserUpdate{})

	assert.True(t, appErrors.IsNotFound(err))
}
