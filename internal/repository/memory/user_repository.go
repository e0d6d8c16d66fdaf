package memory

import (
	"context"
	"sync"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	appErrors "todo-backend/pkg/errors"
)

// UserRepository keeps users by id with a secondary index on email.
type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
	opts    options
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty repository.
func NewUserRepository(opts ...Option) *UserRepository {
	return &UserRepository{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
		opts:    buildOptions(opts),
	}
}

func (r *UserRepository) Create(ctx context.Context, data domain.UserCreate) (*domain.User, error) {
	now := r.opts.timestamp()
	user := domain.User{
		ID:           r.opts.newID(),
		Email:        domain.NormalizeEmail(data.Email),
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return nil, appErrors.NewStorage("put user failed", nil)
	}
	r.users[user.ID] = user
	// The index keeps the first holder of an address, like a query
	// returning its first match.
	if _, taken := r.byEmail[user.Email]; !taken {
		r.byEmail[user.Email] = user.ID
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, changes domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, appErrors.NewNotFound("User not found")
	}
	if repository.NewUpdateBuilder().SetAll(changes.Changes()).Len() == 0 {
		return &user, nil
	}

	oldEmail := user.Email
	changes.Apply(&user)
	user.UpdatedAt = repository.NextModification(r.opts.now(), user.UpdatedAt)
	r.users[id] = user

	if user.Email != oldEmail {
		if r.byEmail[oldEmail] == id {
			delete(r.byEmail, oldEmail)
		}
		if _, taken := r.byEmail[user.Email]; !taken {
			r.byEmail[user.Email] = id
		}
	}
	return &user, nil
}
