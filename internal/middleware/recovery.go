package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"todo-backend/pkg/api"
	appErrors "todo-backend/pkg/errors"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recovery converts panics into an enveloped 500 and keeps the server
// running.
func Recovery(responder *api.Responder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let the server abort the connection as intended.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("requestID", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)

				// Check if response has already been written
				if w.Header().Get("Content-Type") == "" {
					responder.Respond(w, r, api.Fail(appErrors.NewInternal(fmt.Sprint(rec), nil)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
