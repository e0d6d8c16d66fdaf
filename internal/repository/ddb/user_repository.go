package ddb

import (
	"context"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	appErrors "todo-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

type userRecord struct {
	ID         string `dynamodbav:"id"`
	EntityType string `dynamodbav:"entityType"`
	Email      string `dynamodbav:"email"`
	FirstName  string `dynamodbav:"firstName"`
	LastName   string `dynamodbav:"lastName"`
	Password   string `dynamodbav:"password"`
	Verified   bool   `dynamodbav:"verified"`
	CreatedAt  string `dynamodbav:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
}

func newUserRecord(u domain.User) userRecord {
	return userRecord{
		ID:         u.ID,
		EntityType: entityUser,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Password:   u.PasswordHash,
		Verified:   u.Verified,
		CreatedAt:  formatTime(u.CreatedAt),
		UpdatedAt:  formatTime(u.UpdatedAt),
	}
}

func unmarshalUser(item map[string]types.AttributeValue) (*domain.User, error) {
	var rec userRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, err
	}
	if rec.EntityType != entityUser {
		return nil, nil
	}
	return &domain.User{
		ID:           rec.ID,
		Email:        rec.Email,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		PasswordHash: rec.Password,
		Verified:     rec.Verified,
		CreatedAt:    parseTime(rec.CreatedAt),
		UpdatedAt:    parseTime(rec.UpdatedAt),
	}, nil
}

// UserRepository stores users in DynamoDB.
type UserRepository struct {
	client     Client
	tableName  string
	emailIndex string
	logger     *zap.Logger
	opts       options
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a user repository over tableName. emailIndex is
// the GSI keyed on email.
func NewUserRepository(client Client, tableName, emailIndex string, logger *zap.Logger, opts ...Option) *UserRepository {
	return &UserRepository{
		client:     client,
		tableName:  tableName,
		emailIndex: emailIndex,
		logger:     logger,
		opts:       buildOptions(opts),
	}
}

// Create stores a new, unverified user. Email uniqueness is the caller's
// responsibility (see FindByEmail).
func (r *UserRepository) Create(ctx context.Context, data domain.UserCreate) (*domain.User, error) {
	now := r.opts.timestamp()
	user := domain.User{
		ID:           r.opts.newID(),
		Email:        domain.NormalizeEmail(data.Email),
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	item, err := attributevalue.MarshalMap(newUserRecord(user))
	if err != nil {
		return nil, appErrors.NewInternal("failed to marshal user item", err)
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("id"))).
		Build()
	if err != nil {
		return nil, appErrors.NewInternal("failed to build put condition", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return nil, storageError(r.logger, "put user", err)
	}
	return &user, nil
}

// FindByID returns nil when no user has the id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, storageError(r.logger, "get user", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	user, err := unmarshalUser(result.Item)
	if err != nil {
		return nil, appErrors.NewInternal("failed to unmarshal user item", err)
	}
	return user, nil
}

// FindByEmail looks the address up case-insensitively through the email
// index and returns the first match, or nil.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("email").Equal(expression.Value(domain.NormalizeEmail(email)))).
		Build()
	if err != nil {
		return nil, appErrors.NewInternal("failed to build key condition", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.emailIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, storageError(r.logger, "query user by email", err)
	}

	for _, item := range result.Items {
		user, err := unmarshalUser(item)
		if err != nil {
			return nil, appErrors.NewInternal("failed to unmarshal user item", err)
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}

// Update merges a sparse profile change. An empty change-set returns the
// stored user without writing.
func (r *UserRepository) Update(ctx context.Context, id string, changes domain.UserUpdate) (*domain.User, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("User not found")
	}

	upd, ok := repository.NewUpdateBuilder().
		SetAll(changes.Changes()).
		Build(repository.NextModification(r.opts.now(), existing.UpdatedAt))
	if !ok {
		return existing, nil
	}

	input, err := updateExistingInput(r.tableName, id, upd)
	if err != nil {
		return nil, appErrors.NewInternal("failed to build user update", err)
	}
	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		// Deleted since the read above.
		if isConditionFailure(err) {
			return nil, appErrors.NewNotFound("User not found")
		}
		return nil, storageError(r.logger, "update user", err)
	}

	user, err := unmarshalUser(result.Attributes)
	if err != nil || user == nil {
		return nil, appErrors.NewInternal("failed to unmarshal updated user", err)
	}
	return user, nil
}
