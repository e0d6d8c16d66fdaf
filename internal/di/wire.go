//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"todo-backend/internal/config"
	"todo-backend/internal/handlers"
	"todo-backend/internal/middleware"
	"todo-backend/internal/service/todos"
	"todo-backend/internal/service/users"
	"todo-backend/pkg/auth"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideRepositories,
	ProvideTodoRepository,
	ProvideUserRepository,
	ProvideJWTService,
	wire.Bind(new(users.TokenIssuer), new(*auth.JWTService)),
	wire.Bind(new(middleware.TokenVerifier), new(*auth.JWTService)),
	todos.NewService,
	ProvideUserService,
	ProvideValidator,
	ProvideResponder,
	ProvideHealthHandler,
	handlers.NewTodoHandler,
	handlers.NewAuthHandler,
	handlers.NewRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
