package auth

import "context"

// Identity is the authenticated caller as asserted by a verified token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the identity, reporting whether one is present.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
