// Package users provides registration, login and profile operations.
package users

import (
	"context"
	"errors"

	"todo-backend/internal/domain"
	"todo-backend/internal/observability"
	"todo-backend/internal/repository"
	"todo-backend/pkg/auth"
	appErrors "todo-backend/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = appErrors.NewConflict("User already exists with this email")
	ErrInvalidCredentials = appErrors.NewAuthentication("Invalid credentials")
	ErrUserNotFound       = appErrors.NewNotFound("User not found")
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(userID, email string) (string, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Service defines the account operations exposed to the HTTP layer.
type Service interface {
	Register(ctx context.Context, email, firstName, lastName, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, identity auth.Identity) (*domain.User, error)
	UpdateProfile(ctx context.Context, identity auth.Identity, changes domain.UserUpdate) (*domain.User, error)
}

type service struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	// Compared against when the email is unknown, so a failed login costs
	// the same either way.
	dummyHash []byte
	logger    *zap.Logger
	metrics   *observability.Collector
}

// NewService creates the user service. metrics may be nil.
func NewService(repo repository.UserRepository, tokens TokenIssuer, bcryptCost int, logger *zap.Logger, metrics *observability.Collector) (Service, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Register creates an account. Uniqueness is checked through the email
// index before the write; two concurrent registrations can both pass.
func (s *service) Register(ctx context.Context, email, firstName, lastName, password string) (*AuthResult, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.NewInternal("failed to hash password", err)
	}

	user, err := s.repo.Create(ctx, domain.UserCreate{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	s.metrics.UserRegistered()
	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return s.issue(user)
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if user == nil || err != nil {
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn("stored password hash unusable", zap.Error(err))
		}
		s.metrics.LoginFailed()
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *service) Me(ctx context.Context, identity auth.Identity) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a sparse profile change. Moving to an address held
// by another account is a conflict.
func (s *service) UpdateProfile(ctx context.Context, identity auth.Identity, changes domain.UserUpdate) (*domain.User, error) {
	if changes.Email != nil {
		holder, err := s.repo.FindByEmail(ctx, *changes.Email)
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.ID != identity.ID {
			return nil, ErrUserExists
		}
	}

	user, err := s.repo.Update(ctx, identity.ID, changes)
	if err != nil {
		if appErrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, appErrors.NewInternal("failed to sign token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
