// Package handlers implements the HTTP surface of the todo API under
// /api/v1.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// Pagination is the paging block of list responses. LastEvaluatedKey is the
// opaque cursor for the next page and is omitted on the last one.
type Pagination struct {
	Limit            int    `json:"limit"`
	LastEvaluatedKey string `json:"lastEvaluatedKey,omitempty"`
	HasMore          bool   `json:"hasMore"`
}

// TodoList is the data of GET /todos and GET /auth/me/todos.
type TodoList struct {
	Todos      []domain.Todo `json:"todos"`
	Pagination Pagination    `json:"pagination"`
}

func newTodoList(page repository.Page[domain.Todo], limit int) TodoList {
	todos := page.Items
	if todos == nil {
		todos = []domain.Todo{}
	}
	return TodoList{
		Todos: todos,
		Pagination: Pagination{
			Limit:            limit,
			LastEvaluatedKey: page.Cursor,
			HasMore:          page.HasMore(),
		},
	}
}

// pageParams reads limit and lastKey from the query string. A missing or
// unparsable limit falls back to the default page size.
func pageParams(r *http.Request) (limit int, cursor string) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	return repository.EffectiveLimit(limit), q.Get("lastKey")
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
