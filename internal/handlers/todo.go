package handlers

import (
	"net/http"

	"todo-backend/internal/service/todos"
	"todo-backend/internal/validation"
	"todo-backend/pkg/api"
	"todo-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TodoHandler handles todo-related HTTP requests
type TodoHandler struct {
	todos     todos.Service
	validator *validation.Validator
	responder *api.Responder
	logger    *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(svc todos.Service, validator *validation.Validator, responder *api.Responder, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		todos:     svc,
		validator: validator,
		responder: responder,
		logger:    logger,
	}
}

// CreateTodo handles POST /todos. The caller's id is recorded as owner
// when the request carries a valid token.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}

	var userID string
	if identity, ok := auth.IdentityFrom(r.Context()); ok {
		userID = identity.ID
	}

	todo, err := h.todos.Create(r.Context(), req.ToDomain(userID))
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.Created("Todo created successfully", todo))
}

// ListTodos handles GET /todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	limit, cursor := pageParams(r)

	page, err := h.todos.List(r.Context(), limit, cursor)
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "Todos retrieved successfully", newTodoList(page, limit)))
}

// GetTodo handles GET /todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "Todo retrieved successfully", todo))
}

// UpdateTodo handles PUT /todos/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req validation.UpdateTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}

	todo, err := h.todos.Update(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "Todo updated successfully", todo))
}

// DeleteTodo handles DELETE /todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.todos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "Todo deleted successfully", nil))
}
