package handlers

import (
	"net/http"

	"todo-backend/internal/service/todos"
	"todo-backend/internal/service/users"
	"todo-backend/internal/validation"
	"todo-backend/pkg/api"
	"todo-backend/pkg/auth"
	appErrors "todo-backend/pkg/errors"

	"go.uber.org/zap"
)

// AuthHandler handles registration, login and the caller's own profile.
type AuthHandler struct {
	users     users.Service
	todos     todos.Service
	validator *validation.Validator
	responder *api.Responder
	logger    *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userSvc users.Service, todoSvc todos.Service, validator *validation.Validator, responder *api.Responder, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     userSvc,
		todos:     todoSvc,
		validator: validator,
		responder: responder,
		logger:    logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}

	result, err := h.users.Register(r.Context(), *req.Email, *req.FirstName, *req.LastName, *req.Password)
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.Created("User registered successfully", result))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}

	result, err := h.users.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "Login successful", result))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	user, err := h.users.Me(r.Context(), identity)
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "User profile retrieved successfully", user))
}

// UpdateMe handles PUT /auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req validation.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity, req.ToDomain())
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "User profile updated successfully", user))
}

// MyTodos handles GET /auth/me/todos
func (h *AuthHandler) MyTodos(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	limit, cursor := pageParams(r)

	page, err := h.todos.ListMine(r.Context(), identity.ID, limit, cursor)
	if err != nil {
		h.responder.Respond(w, r, api.Fail(err))
		return
	}
	h.responder.Respond(w, r, api.OK(http.StatusOK, "Todos retrieved successfully", newTodoList(page, limit)))
}

// identity returns the caller attached by the auth middleware. Routes
// mounted without it answer 401.
func (h *AuthHandler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		h.responder.Respond(w, r, api.Fail(appErrors.NewAuthentication("User not authenticated")))
	}
	return identity, ok
}
