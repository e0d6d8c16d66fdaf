package ddb

import (
	"context"
	"errors"
	"time"

	"todo-backend/internal/observability"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the storage circuit breaker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Trip when at least MinRequests were seen and the failure ratio
	// reaches FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the production defaults.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerClient guards a Client with a circuit breaker. While the breaker is
// open calls fail fast with gobreaker.ErrOpenState, which the repositories
// report as a temporary unavailability.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

var _ Client = (*BreakerClient)(nil)

// NewBreakerClient wraps next. metrics may be nil.
func NewBreakerClient(next Client, cfg BreakerConfig, logger *zap.Logger, metrics *observability.Collector) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.SetBreakerState(name, float64(to))
		},
		IsSuccessful: isBreakerSuccess,
	})
	return &BreakerClient{next: next, cb: cb}
}

// State reports the current breaker state.
func (c *BreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// isBreakerSuccess counts outcomes that say nothing about store health as
// successes: a failed write condition and a caller giving up.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	return isConditionFailure(err) || errors.Is(err, context.Canceled)
}

func execute[T any](cb *gobreaker.CircuitBreaker, call func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return call()
	})
	typed, _ := out.(T)
	return typed, err
}

func (c *BreakerClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return execute(c.cb, func() (*dynamodb.PutItemOutput, error) { return c.next.PutItem(ctx, params, optFns...) })
}

func (c *BreakerClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return execute(c.cb, func() (*dynamodb.GetItemOutput, error) { return c.next.GetItem(ctx, params, optFns...) })
}

func (c *BreakerClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return execute(c.cb, func() (*dynamodb.UpdateItemOutput, error) { return c.next.UpdateItem(ctx, params, optFns...) })
}

func (c *BreakerClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return execute(c.cb, func() (*dynamodb.DeleteItemOutput, error) { return c.next.DeleteItem(ctx, params, optFns...) })
}

func (c *BreakerClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return execute(c.cb, func() (*dynamodb.QueryOutput, error) { return c.next.Query(ctx, params, optFns...) })
}

func (c *BreakerClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return execute(c.cb, func() (*dynamodb.ScanOutput, error) { return c.next.Scan(ctx, params, optFns...) })
}
