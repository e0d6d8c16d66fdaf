package di

import (
	"context"
	"fmt"

	"todo-backend/internal/config"
	"todo-backend/internal/handlers"
	"todo-backend/internal/observability"
	"todo-backend/internal/repository"
	"todo-backend/internal/repository/ddb"
	"todo-backend/internal/repository/memory"
	"todo-backend/internal/service/users"
	"todo-backend/internal/validation"
	"todo-backend/pkg/api"
	"todo-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Collector
	Router  *handlers.Router
}

// Repositories groups the storage implementations selected by the
// configured driver.
type Repositories struct {
	Todos repository.TodoRepository
	Users repository.UserRepository
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zcfg.Level = level

	return zcfg.Build()
}

// ProvideMetrics creates the metrics collector.
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.Features.MetricsNamespace)
}

// ProvideRepositories builds the repositories for the configured driver.
// The AWS configuration is only loaded for the DynamoDB driver.
func ProvideRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return Repositories{
			Todos: memory.NewTodoRepository(),
			Users: memory.NewUserRepository(),
		}, nil

	case config.DriverDynamoDB:
		client, err := provideStorageClient(ctx, cfg, logger, metrics)
		if err != nil {
			return Repositories{}, err
		}
		db := cfg.Database
		return Repositories{
			Todos: ddb.NewTodoRepository(client, db.TableName, db.UserIndex, logger),
			Users: ddb.NewUserRepository(client, db.TableName, db.EmailIndex, logger),
		}, nil
	}
	return Repositories{}, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
}

// provideStorageClient creates the DynamoDB client wrapped with metrics and,
// when enabled, the circuit breaker. The breaker sits outside the
// instrumentation so rejected calls are not counted as storage calls.
func provideStorageClient(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (ddb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Database.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	dynamo := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.Database.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Database.Endpoint)
		}
	})

	var client ddb.Client = ddb.NewInstrumentedClient(dynamo, cfg.Database.TableName, metrics)
	if cfg.Breaker.Enabled {
		b := cfg.Breaker
		client = ddb.NewBreakerClient(client, ddb.BreakerConfig{
			Name:             "dynamodb",
			MaxRequests:      b.MaxRequests,
			Interval:         b.Interval.Std(),
			Timeout:          b.Timeout.Std(),
			FailureThreshold: b.FailureThreshold,
			MinRequests:      b.MinRequests,
		}, logger, metrics)
	}

	logger.Info("DynamoDB storage configured",
		zap.String("table", cfg.Database.TableName),
		zap.String("region", cfg.Database.Region),
		zap.Bool("breaker", cfg.Breaker.Enabled),
	)
	return client, nil
}

// ProvideTodoRepository exposes the todo repository.
func ProvideTodoRepository(repos Repositories) repository.TodoRepository {
	return repos.Todos
}

// ProvideUserRepository exposes the user repository.
func ProvideUserRepository(repos Repositories) repository.UserRepository {
	return repos.Users
}

// ProvideJWTService creates the token service.
func ProvideJWTService(cfg *config.Config) (*auth.JWTService, error) {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey: cfg.Security.JWTSecret,
		Issuer:    cfg.Security.TokenIssuer,
		Audience:  cfg.Security.TokenAudience,
		TTL:       cfg.Security.TokenTTL.Std(),
	})
}

// ProvideUserService creates the account service.
func ProvideUserService(repo repository.UserRepository, tokens users.TokenIssuer, cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) (users.Service, error) {
	return users.NewService(repo, tokens, cfg.Security.BcryptCost, logger, metrics)
}

// ProvideValidator returns the shared request validator.
func ProvideValidator() *validation.Validator {
	return validation.Default()
}

// ProvideResponder creates the response renderer.
func ProvideResponder(cfg *config.Config, logger *zap.Logger) *api.Responder {
	return api.NewResponder(logger, cfg.IsDevelopment())
}

// ProvideHealthHandler creates the health handler.
func ProvideHealthHandler(cfg *config.Config) *handlers.HealthHandler {
	return handlers.NewHealthHandler(cfg.Environment)
}
