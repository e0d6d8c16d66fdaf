package memory

import (
	"context"
	"sort"
	"sync"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	appErrors "todo-backend/pkg/errors"
)

// TodoRepository keeps todos in a map guarded by a RWMutex.
type TodoRepository struct {
	mu    sync.RWMutex
	todos map[string]domain.Todo
	opts  options
}

var _ repository.TodoRepository = (*TodoRepository)(nil)

// NewTodoRepository creates an empty repository.
func NewTodoRepository(opts ...Option) *TodoRepository {
	return &TodoRepository{
		todos: make(map[string]domain.Todo),
		opts:  buildOptions(opts),
	}
}

func (r *TodoRepository) Create(ctx context.Context, data domain.TodoCreate) (*domain.Todo, error) {
	now := r.opts.timestamp()
	todo := domain.Todo{
		ID:          r.opts.newID(),
		UserID:      data.UserID,
		Title:       data.Title,
		Description: data.Description,
		Priority:    data.Priority,
		DueDate:     data.DueDate,
		Tags:        cloneTags(data.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if todo.Priority == "" {
		todo.Priority = domain.PriorityMedium
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.todos[todo.ID]; exists {
		return nil, appErrors.NewStorage("put todo failed", nil)
	}
	r.todos[todo.ID] = todo
	return copyTodo(todo), nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	todo, ok := r.todos[id]
	if !ok {
		return nil, nil
	}
	return copyTodo(todo), nil
}

func (r *TodoRepository) Update(ctx context.Context, id string, changes domain.TodoUpdate) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.todos[id]
	if !ok {
		return nil, appErrors.NewNotFound("Todo not found")
	}
	if repository.NewUpdateBuilder().SetAll(changes.Changes()).Len() == 0 {
		return copyTodo(todo), nil
	}

	changes.Apply(&todo)
	todo.UpdatedAt = repository.NextModification(r.opts.now(), todo.UpdatedAt)
	r.todos[id] = todo
	return copyTodo(todo), nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

// List returns todos oldest first.
func (r *TodoRepository) List(ctx context.Context, limit int, cursor string) (repository.Page[domain.Todo], error) {
	r.mu.RLock()
	all := make([]domain.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		all = append(all, t)
	}
	r.mu.RUnlock()

	return paginate(all, oldestFirst, limit, cursor)
}

// ListByUser returns the user's todos newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string, limit int, cursor string) (repository.Page[domain.Todo], error) {
	r.mu.RLock()
	var mine []domain.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			mine = append(mine, t)
		}
	}
	r.mu.RUnlock()

	return paginate(mine, newestFirst, limit, cursor)
}

func oldestFirst(a, b domain.Todo) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func newestFirst(a, b domain.Todo) bool {
	return oldestFirst(b, a)
}

// paginate sorts todos by less and returns the page that starts right
// after the cursor position. The position survives deletion of the item
// it was taken from.
func paginate(todos []domain.Todo, less func(a, b domain.Todo) bool, limit int, cursor string) (repository.Page[domain.Todo], error) {
	sort.Slice(todos, func(i, j int) bool { return less(todos[i], todos[j]) })

	start := 0
	if cursor != "" {
		after, err := decodeCursor(cursor)
		if err != nil {
			return repository.Page[domain.Todo]{}, err
		}
		start = sort.Search(len(todos), func(i int) bool { return less(after, todos[i]) })
	}

	end := start + repository.EffectiveLimit(limit)
	if end > len(todos) {
		end = len(todos)
	}

	items := make([]domain.Todo, 0, end-start)
	for _, t := range todos[start:end] {
		items = append(items, *copyTodo(t))
	}
	page := repository.Page[domain.Todo]{Items: items}
	if end < len(todos) {
		page.Cursor = encodeCursor(todos[end-1])
	}
	return page, nil
}

func copyTodo(t domain.Todo) *domain.Todo {
	t.Tags = cloneTags(t.Tags)
	return &t
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}
