// Package memory implements the repository interfaces in process memory.
// It backs local development (STORAGE_DRIVER=memory) and the HTTP tests.
package memory

import (
	"encoding/base64"
	"strings"
	"time"

	"todo-backend/internal/domain"
	appErrors "todo-backend/pkg/errors"

	"github.com/google/uuid"
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

var errInvalidCursor = appErrors.NewValidation("Invalid pagination cursor")

// A cursor names the sort position of the last item served: its creation
// time and id.
func encodeCursor(last domain.Todo) string {
	raw := last.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + last.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (domain.Todo, error) {
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return domain.Todo{}, errInvalidCursor
	}
	ts, id, ok := strings.Cut(string(data), "|")
	if !ok || id == "" {
		return domain.Todo{}, errInvalidCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return domain.Todo{}, errInvalidCursor
	}
	return domain.Todo{ID: id, CreatedAt: createdAt}, nil
}
