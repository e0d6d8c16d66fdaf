package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "todo-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func render(t *testing.T, p *Responder, res Result) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	p.Respond(rec, httptest.NewRequest(http.MethodGet, "/x", nil), res)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespond_Success(t *testing.T) {
	p := NewResponder(zap.NewNop(), false)

	rec, body := render(t, p, OK(http.StatusOK, "Todo retrieved successfully", map[string]string{"id": "1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Todo retrieved successfully", body["message"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])
}

func TestRespond_CreatedAndNullData(t *testing.T) {
	p := NewResponder(zap.NewNop(), false)

	rec, _ := render(t, p, Created("created", struct{}{}))
	assert.Equal(t, http.StatusCreated, rec.Code)

	_, body := render(t, p, OK(http.StatusOK, "Todo deleted successfully", nil))
	data, present := body["data"]
	assert.True(t, present)
	assert.Nil(t, data)
}

func TestRespond_ErrorKinds(t *testing.T) {
	p := NewResponder(zap.NewNop(), false)

	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{appErrors.NewValidation(`"title" is required`), http.StatusBadRequest, `"title" is required`},
		{appErrors.NewAuthentication("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{appErrors.NewForbidden("Forbidden"), http.StatusForbidden, "Forbidden"},
		{appErrors.NewNotFound("Todo not found"), http.StatusNotFound, "Todo not found"},
		{appErrors.NewConflict("User already exists with this email"), http.StatusConflict, "User already exists with this email"},
		{appErrors.NewUnavailable("Service temporarily unavailable", nil), http.StatusServiceUnavailable, "Service temporarily unavailable"},
		{appErrors.NewStorage("get todo failed", errors.New("throttled")), http.StatusInternalServerError, InternalErrorMessage},
		{errors.New("boom"), http.StatusInternalServerError, InternalErrorMessage},
	}

	for _, tt := range tests {
		rec, body := render(t, p, Fail(tt.err))
		assert.Equal(t, tt.code, rec.Code, tt.msg)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, tt.msg, body["message"])
		_, hasData := body["data"]
		assert.False(t, hasData)
	}
}

func TestRespond_DevelopmentExposesInternalMessage(t *testing.T) {
	p := NewResponder(zap.NewNop(), true)

	rec, body := render(t, p, Fail(errors.New("dial tcp: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "dial tcp: connection refused", body["message"])
}

func TestOpenAPIHandler(t *testing.T) {
	t.Run("yaml by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OpenAPIHandler()(rec, httptest.NewRequest(http.MethodGet, "/api-docs/openapi", nil))
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	})

	t.Run("json on request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api-docs/openapi", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		OpenAPIHandler()(rec, req)

		var spec map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
		assert.Contains(t, spec["paths"], "/todos/{id}")
	})
}

func TestSwaggerUIHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	SwaggerUIHandler("/api-docs/openapi")(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

	assert.Contains(t, rec.Body.String(), `url: "/api-docs/openapi"`)
}
