package ddb

import (
	"context"
	"time"

	"todo-backend/internal/observability"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// InstrumentedClient records a count and latency for every call.
type InstrumentedClient struct {
	next    Client
	table   string
	metrics *observability.Collector
}

var _ Client = (*InstrumentedClient)(nil)

// NewInstrumentedClient wraps next, labelling samples with table.
func NewInstrumentedClient(next Client, table string, metrics *observability.Collector) *InstrumentedClient {
	return &InstrumentedClient{next: next, table: table, metrics: metrics}
}

func (c *InstrumentedClient) observe(op string, start time.Time, err error) {
	c.metrics.ObserveDB(op, c.table, err, time.Since(start))
}

func (c *InstrumentedClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	start := time.Now()
	out, err := c.next.PutItem(ctx, params, optFns...)
	c.observe("PutItem", start, err)
	return out, err
}

func (c *InstrumentedClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	start := time.Now()
	out, err := c.next.GetItem(ctx, params, optFns...)
	c.observe("GetItem", start, err)
	return out, err
}

func (c *InstrumentedClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	start := time.Now()
	out, err := c.next.UpdateItem(ctx, params, optFns...)
	c.observe("UpdateItem", start, err)
	return out, err
}

func (c *InstrumentedClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	start := time.Now()
	out, err := c.next.DeleteItem(ctx, params, optFns...)
	c.observe("DeleteItem", start, err)
	return out, err
}

func (c *InstrumentedClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	start := time.Now()
	out, err := c.next.Query(ctx, params, optFns...)
	c.observe("Query", start, err)
	return out, err
}

func (c *InstrumentedClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	start := time.Now()
	out, err := c.next.Scan(ctx, params, optFns...)
	c.observe("Scan", start, err)
	return out, err
}
