package middleware

import (
	"net/http"
	"strings"

	"todo-backend/pkg/api"
	"todo-backend/pkg/auth"

	"go.uber.org/zap"
)

const (
	MsgTokenRequired = "Access token required"
	MsgTokenInvalid  = "Invalid or expired token"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	ValidateToken(token string) (auth.Identity, error)
}

// bearerToken returns the token of an "Authorization: Bearer <token>"
// header and whether the header had that form.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return header[len("Bearer "):], true
}

// Authenticate rejects requests without a valid bearer token and attaches
// the token's identity to the request context otherwise. The user record
// is not re-read.
func Authenticate(verifier TokenVerifier, responder *api.Responder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				responder.Error(w, http.StatusUnauthorized, MsgTokenRequired)
				return
			}

			identity, err := verifier.ValidateToken(token)
			if err != nil {
				logger.Debug("token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				responder.Error(w, http.StatusUnauthorized, MsgTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuthenticate attaches an identity when the request carries a
// valid bearer token and passes every request through unchanged otherwise.
func OptionalAuthenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if identity, err := verifier.ValidateToken(token); err == nil {
					r = r.WithContext(auth.WithIdentity(r.Context(), identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
