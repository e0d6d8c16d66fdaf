// Package api shapes every HTTP response into the service envelope:
//
//	{"status": "success", "message": "...", "data": ...}
//	{"status": "error", "message": "..."}
package api

import (
	"encoding/json"
	"net/http"

	appErrors "todo-backend/pkg/errors"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// InternalErrorMessage is shown for unexpected failures outside development.
const InternalErrorMessage = "Internal server error"

// Envelope is the wire shape of every response body.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// successEnvelope always carries data, even when it is null.
type successEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Result is either a success carrying data or a failure carrying an error.
// Build one with OK, Created or Fail and render it with Responder.Respond.
type Result struct {
	code    int
	message string
	data    any
	err     error
}

// OK is a successful result with an explicit status code.
func OK(code int, message string, data any) Result {
	return Result{code: code, message: message, data: data}
}

// Created is a 201 result.
func Created(message string, data any) Result {
	return OK(http.StatusCreated, message, data)
}

// Fail is a failed result. The status code is derived from the error kind.
func Fail(err error) Result {
	return Result{err: err}
}

// Responder renders results. In development mode messages of unexpected
// errors are passed through instead of the generic one.
type Responder struct {
	logger      *zap.Logger
	development bool
}

// NewResponder creates a Responder.
func NewResponder(logger *zap.Logger, development bool) *Responder {
	return &Responder{logger: logger, development: development}
}

// Respond writes res as JSON.
func (p *Responder) Respond(w http.ResponseWriter, r *http.Request, res Result) {
	if res.err == nil {
		code := res.code
		if code == 0 {
			code = http.StatusOK
		}
		writeJSON(w, code, successEnvelope{Status: StatusSuccess, Message: res.message, Data: res.data})
		return
	}

	code, message := p.classify(res.err)
	if code >= http.StatusInternalServerError {
		p.logger.Error("request failed",
			zap.Error(res.err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", code),
		)
	}
	writeJSON(w, code, Envelope{Status: StatusError, Message: message})
}

// Error writes an error envelope with an explicit status code.
func (p *Responder) Error(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Status: StatusError, Message: message})
}

func (p *Responder) classify(err error) (int, string) {
	switch appErrors.TypeOf(err) {
	case appErrors.ErrorTypeValidation:
		return http.StatusBadRequest, appErrors.MessageOf(err)
	case appErrors.ErrorTypeAuthentication:
		return http.StatusUnauthorized, appErrors.MessageOf(err)
	case appErrors.ErrorTypeForbidden:
		return http.StatusForbidden, appErrors.MessageOf(err)
	case appErrors.ErrorTypeNotFound:
		return http.StatusNotFound, appErrors.MessageOf(err)
	case appErrors.ErrorTypeConflict:
		return http.StatusConflict, appErrors.MessageOf(err)
	case appErrors.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable, appErrors.MessageOf(err)
	}

	if p.development {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, InternalErrorMessage
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
