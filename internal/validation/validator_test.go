package validation

import (
	"strings"
	"testing"

	appErrors "todo-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTodoRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     CreateTodoRequest
		wantMsg string
	}{
		{
			name: "minimal",
			req:  CreateTodoRequest{Title: ptr("Buy milk")},
		},
		{
			name: "full",
			req: CreateTodoRequest{
				Title:       ptr("Buy milk"),
				Description: ptr("2 litres"),
				Priority:    ptr("high"),
				DueDate:     ptr("2026-10-20T18:00:00.000Z"),
				Tags:        ptr([]string{"home", "errands"}),
			},
		},
		{
			name:    "missing title",
			req:     CreateTodoRequest{},
			wantMsg: `"title" is required`,
		},
		{
			name:    "empty title",
			req:     CreateTodoRequest{Title: ptr("")},
			wantMsg: `"title" is not allowed to be empty`,
		},
		{
			name:    "title too long",
			req:     CreateTodoRequest{Title: ptr(strings.Repeat("a", 201))},
			wantMsg: `"title" length must be less than or equal to 200 characters long`,
		},
		{
			name:    "description too long",
			req:     CreateTodoRequest{Title: ptr("a"), Description: ptr(strings.Repeat("d", 1001))},
			wantMsg: `"description" length must be less than or equal to 1000 characters long`,
		},
		{
			name:    "unknown priority",
			req:     CreateTodoRequest{Title: ptr("a"), Priority: ptr("urgent")},
			wantMsg: `"priority" must be one of [low, medium, high]`,
		},
		{
			name:    "bad due date",
			req:     CreateTodoRequest{Title: ptr("a"), DueDate: ptr("next tuesday")},
			wantMsg: `"dueDate" must be in ISO 8601 date format`,
		},
		{
			name:    "tag too long",
			req:     CreateTodoRequest{Title: ptr("a"), Tags: ptr([]string{"ok", strings.Repeat("t", 51)})},
			wantMsg: `"tags[1]" length must be less than or equal to 50 characters long`,
		},
		{
			name:    "first failing field wins",
			req:     CreateTodoRequest{Priority: ptr("urgent")},
			wantMsg: `"title" is required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, appErrors.IsValidation(err))
			assert.Equal(t, tt.wantMsg, appErrors.MessageOf(err))
		})
	}
}

func TestUpdateTodoRequest_AllOptionalSameRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(UpdateTodoRequest{}))
	assert.NoError(t, v.Struct(UpdateTodoRequest{Completed: ptr(true)}))
	assert.NoError(t, v.Struct(UpdateTodoRequest{Tags: ptr([]string{})}))

	err := v.Struct(UpdateTodoRequest{Title: ptr("")})
	assert.Equal(t, `"title" is not allowed to be empty`, appErrors.MessageOf(err))

	err = v.Struct(UpdateTodoRequest{Priority: ptr("MEDIUM")})
	assert.Equal(t, `"priority" must be one of [low, medium, high]`, appErrors.MessageOf(err))
}

func TestISODateLayouts(t *testing.T) {
	v := New()

	for _, date := range []string{
		"2026-10-20",
		"2026-10-20T18:00",
		"2026-10-20T18:00:00",
		"2026-10-20T18:00:00Z",
		"2026-10-20T18:00:00.123+02:00",
	} {
		assert.NoError(t, v.Struct(UpdateTodoRequest{DueDate: ptr(date)}), date)
	}
	for _, date := range []string{"", "20-10-2026", "2026-13-01", "tomorrow"} {
		assert.Error(t, v.Struct(UpdateTodoRequest{DueDate: ptr(date)}), date)
	}
}

func TestRegisterRequest(t *testing.T) {
	v := New()
	valid := RegisterRequest{
		Email:     ptr("ada@example.com"),
		FirstName: ptr("Ada"),
		LastName:  ptr("Lovelace"),
		Password:  ptr("secret1"),
	}
	require.NoError(t, v.Struct(valid))

	badEmail := valid
	badEmail.Email = ptr("not-an-email")
	assert.Equal(t, `"email" must be a valid email`, appErrors.MessageOf(v.Struct(badEmail)))

	shortPassword := valid
	shortPassword.Password = ptr("12345")
	assert.Equal(t, `"password" length must be at least 6 characters long`, appErrors.MessageOf(v.Struct(shortPassword)))

	longName := valid
	longName.LastName = ptr(strings.Repeat("x", 51))
	assert.Equal(t, `"lastName" length must be less than or equal to 50 characters long`, appErrors.MessageOf(v.Struct(longName)))
}

func TestLoginRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(LoginRequest{Email: ptr("ada@example.com"), Password: ptr("x")}))
	assert.Equal(t, `"password" is required`, appErrors.MessageOf(v.Struct(LoginRequest{Email: ptr("ada@example.com")})))
	assert.Equal(t, `"email" is not allowed to be empty`, appErrors.MessageOf(v.Struct(LoginRequest{Email: ptr(""), Password: ptr("x")})))
}

func TestUpdateTodoRequest_ToDomain(t *testing.T) {
	req := UpdateTodoRequest{Completed: ptr(true), Priority: ptr("low")}

	update := req.ToDomain()

	require.NotNil(t, update.Priority)
	assert.Equal(t, "low", string(*update.Priority))
	assert.Nil(t, update.Title)
	assert.Len(t, update.Changes(), 2)
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
