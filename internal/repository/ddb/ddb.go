// Package ddb implements the repository interfaces using AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
//
// Todos and users share one table keyed by "id". Every item carries an
// "entityType" discriminator; secondary indexes exist on "email" (users) and
// on "userId" + "createdAt" (todos).
package ddb

import (
	"context"
	"errors"
	"maps"
	"time"

	"todo-backend/internal/repository"
	appErrors "todo-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client is the subset of the DynamoDB API the repositories use. The
// concrete *dynamodb.Client satisfies it.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

const (
	entityTodo = "TODO"
	entityUser = "USER"

	// Fixed-width so that stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Option customizes a repository.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Millisecond)
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// marshalValues converts placeholder values for an update expression,
// storing timestamps in the same layout as the records.
func marshalValues(values map[string]any) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(values))
	for placeholder, v := range values {
		if t, ok := v.(time.Time); ok {
			v = formatTime(t)
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[placeholder] = av
	}
	return out, nil
}

// updateExistingInput renders upd as an UpdateItem call that fails with a
// ConditionalCheckFailedException instead of creating an item when id is
// not stored.
func updateExistingInput(tableName, id string, upd repository.Update) (*dynamodb.UpdateItemInput, error) {
	values, err := marshalValues(upd.Values)
	if err != nil {
		return nil, err
	}
	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(upd.Names)+len(cond.Names()))
	maps.Copy(names, upd.Names)
	maps.Copy(names, cond.Names())

	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       idKey(id),
		UpdateExpression:          aws.String(upd.Expression()),
		ConditionExpression:       cond.Condition(),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}, nil
}

func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// storageError converts a failed DynamoDB call into an application error
// and logs the service error code when there is one.
func storageError(logger *zap.Logger, operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return appErrors.NewStorage(operation+" interrupted", err)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logger.Warn("storage circuit open", zap.String("operation", operation), zap.Error(err))
		return appErrors.NewUnavailable("Service temporarily unavailable", err)
	}

	fields := []zap.Field{zap.String("operation", operation), zap.Error(err)}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		fields = append(fields, zap.String("code", ae.ErrorCode()))
	}
	logger.Error("dynamodb call failed", fields...)
	return appErrors.NewStorage(operation+" failed", err)
}
