package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, cfg JWTConfig) *JWTService {
	t.Helper()
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	return svc
}

func defaultConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "serverless-todo-api",
		Audience:  "serverless-todo-api-users",
		TTL:       7 * 24 * time.Hour,
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newService(t, defaultConfig())

	token, err := svc.GenerateToken("user-1", "ada@example.com")
	require.NoError(t, err)

	id, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "user-1", Email: "ada@example.com"}, id)
}

func TestJWTService_Rejections(t *testing.T) {
	svc := newService(t, defaultConfig())
	token, err := svc.GenerateToken("user-1", "ada@example.com")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ValidateToken("  ")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.SecretKey = "other"
		_, err := newService(t, cfg).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Issuer = "someone-else"
		_, err := newService(t, cfg).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Audience = "admins"
		_, err := newService(t, cfg).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := svc.WithClock(func() time.Time { return time.Now().Add(8 * 24 * time.Hour) })
		_, err := later.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestJWTService_RejectsTokensWithoutExpiry(t *testing.T) {
	cfg := defaultConfig()
	svc := newService(t, cfg)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cfg.Issuer,
			Audience: jwt.ClaimStrings{cfg.Audience},
		},
	})
	token, err := unsigned.SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	cfg := defaultConfig()
	svc := newService(t, cfg)
	now := time.Now()
	other := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	token, err := other.SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTService_Config(t *testing.T) {
	_, err := NewJWTService(JWTConfig{TTL: time.Hour})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{SecretKey: "s"})
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{ID: "u1", Email: "a@b.co"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.ID)
}
