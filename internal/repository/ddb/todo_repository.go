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

// todoRecord is the stored shape of a todo item.
type todoRecord struct {
	ID          string   `dynamodbav:"id"`
	EntityType  string   `dynamodbav:"entityType"`
	UserID      string   `dynamodbav:"userId,omitempty"`
	Title       string   `dynamodbav:"title"`
	Description string   `dynamodbav:"description,omitempty"`
	Completed   bool     `dynamodbav:"completed"`
	Priority    string   `dynamodbav:"priority"`
	DueDate     string   `dynamodbav:"dueDate,omitempty"`
	Tags        []string `dynamodbav:"tags,omitempty"`
	CreatedAt   string   `dynamodbav:"createdAt"`
	UpdatedAt   string   `dynamodbav:"updatedAt"`
}

func newTodoRecord(t domain.Todo) todoRecord {
	return todoRecord{
		ID:          t.ID,
		EntityType:  entityTodo,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func (r todoRecord) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    domain.Priority(r.Priority),
		DueDate:     r.DueDate,
		Tags:        r.Tags,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func unmarshalTodo(item map[string]types.AttributeValue) (*domain.Todo, error) {
	var rec todoRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, err
	}
	if rec.EntityType != entityTodo {
		return nil, nil
	}
	return rec.toDomain(), nil
}

// TodoRepository stores todos in DynamoDB.
type TodoRepository struct {
	client    Client
	tableName string
	userIndex string
	logger    *zap.Logger
	opts      options
}

var _ repository.TodoRepository = (*TodoRepository)(nil)

// NewTodoRepository creates a todo repository over tableName. userIndex is
// the GSI keyed on userId with createdAt as sort key.
func NewTodoRepository(client Client, tableName, userIndex string, logger *zap.Logger, opts ...Option) *TodoRepository {
	return &TodoRepository{
		client:    client,
		tableName: tableName,
		userIndex: userIndex,
		logger:    logger,
		opts:      buildOptions(opts),
	}
}

// Create assigns an id, defaults and timestamps, then writes the item. The
// write is conditional on the id being unused.
func (r *TodoRepository) Create(ctx context.Context, data domain.TodoCreate) (*domain.Todo, error) {
	now := r.opts.timestamp()
	todo := domain.Todo{
		ID:          r.opts.newID(),
		UserID:      data.UserID,
		Title:       data.Title,
		Description: data.Description,
		Completed:   false,
		Priority:    data.Priority,
		DueDate:     data.DueDate,
		Tags:        data.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if todo.Priority == "" {
		todo.Priority = domain.PriorityMedium
	}

	item, err := attributevalue.MarshalMap(newTodoRecord(todo))
	if err != nil {
		return nil, appErrors.NewInternal("failed to marshal todo item", err)
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
		return nil, storageError(r.logger, "put todo", err)
	}
	return &todo, nil
}

// FindByID returns nil when no todo has the id.
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, storageError(r.logger, "get todo", err)
	}
	if result.Item == nil {
		return nil, nil
	}
	todo, err := unmarshalTodo(result.Item)
	if err != nil {
		return nil, appErrors.NewInternal("failed to unmarshal todo item", err)
	}
	return todo, nil
}

// Update merges changes into an existing todo. An empty change-set returns
// the stored todo without writing.
func (r *TodoRepository) Update(ctx context.Context, id string, changes domain.TodoUpdate) (*domain.Todo, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewNotFound("Todo not found")
	}

	upd, ok := repository.NewUpdateBuilder().
		SetAll(changes.Changes()).
		Build(repository.NextModification(r.opts.now(), existing.UpdatedAt))
	if !ok {
		return existing, nil
	}

	input, err := updateExistingInput(r.tableName, id, upd)
	if err != nil {
		return nil, appErrors.NewInternal("failed to build todo update", err)
	}
	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		// Deleted since the read above.
		if isConditionFailure(err) {
			return nil, appErrors.NewNotFound("Todo not found")
		}
		return nil, storageError(r.logger, "update todo", err)
	}

	todo, err := unmarshalTodo(result.Attributes)
	if err != nil || todo == nil {
		return nil, appErrors.NewInternal("failed to unmarshal updated todo", err)
	}
	return todo, nil
}

// Delete removes the item unconditionally. Deleting a missing id succeeds.
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       idKey(id),
	})
	if err != nil {
		return storageError(r.logger, "delete todo", err)
	}
	return nil
}

// List scans the table for todos. Because the entity filter is applied
// after the read, a page may hold fewer than limit items while more remain.
func (r *TodoRepository) List(ctx context.Context, limit int, cursor string) (repository.Page[domain.Todo], error) {
	startKey, err := decodeCursor(cursor)
	if err != nil {
		return repository.Page[domain.Todo]{}, err
	}

	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("entityType").Equal(expression.Value(entityTodo))).
		Build()
	if err != nil {
		return repository.Page[domain.Todo]{}, appErrors.NewInternal("failed to build scan filter", err)
	}

	result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(repository.EffectiveLimit(limit))),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return repository.Page[domain.Todo]{}, storageError(r.logger, "scan todos", err)
	}
	return r.page(result.Items, result.LastEvaluatedKey)
}

// ListByUser queries the user index, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string, limit int, cursor string) (repository.Page[domain.Todo], error) {
	startKey, err := decodeCursor(cursor)
	if err != nil {
		return repository.Page[domain.Todo]{}, err
	}

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return repository.Page[domain.Todo]{}, appErrors.NewInternal("failed to build key condition", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.userIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(repository.EffectiveLimit(limit))),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return repository.Page[domain.Todo]{}, storageError(r.logger, "query todos by user", err)
	}
	return r.page(result.Items, result.LastEvaluatedKey)
}

func (r *TodoRepository) page(items []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) (repository.Page[domain.Todo], error) {
	todos := make([]domain.Todo, 0, len(items))
	for _, item := range items {
		todo, err := unmarshalTodo(item)
		if err != nil {
			r.logger.Warn("skipping malformed todo item", zap.Error(err))
			continue
		}
		if todo != nil {
			todos = append(todos, *todo)
		}
	}

	next, err := encodeCursor(lastKey)
	if err != nil {
		return repository.Page[domain.Todo]{}, appErrors.NewInternal("failed to encode cursor", err)
	}
	return repository.Page[domain.Todo]{Items: todos, Cursor: next}, nil
}
