package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"todo-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "NODE_ENV", "STAGE", "PORT", "SHUTDOWN_TIMEOUT", "CORS_ORIGIN",
		"STORAGE_DRIVER", "DYNAMODB_TABLE", "EMAIL_INDEX_NAME", "USER_INDEX_NAME",
		"DYNAMODB_ENDPOINT", "REGION", "AWS_REGION", "JWT_SECRET", "TOKEN_ISSUER",
		"TOKEN_AUDIENCE", "JWT_EXPIRES_IN", "BCRYPT_COST", "BREAKER_ENABLED",
		"BREAKER_MAX_REQUESTS", "BREAKER_INTERVAL", "BREAKER_TIMEOUT",
		"BREAKER_FAILURE_THRESHOLD", "BREAKER_MIN_REQUESTS", "LOG_LEVEL",
		"ENABLE_METRICS", "METRICS_NAMESPACE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "serverless-todo-api-dev", cfg.Database.TableName)
	assert.Equal(t, "email-index", cfg.Database.EmailIndex)
	assert.Equal(t, "userId-createdAt-index", cfg.Database.UserIndex)
	assert.Equal(t, 7*24*time.Hour, cfg.Security.TokenTTL.Std())
	assert.Equal(t, []string{"defaults", "environment"}, cfg.LoadedFrom)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAGE", "prod")
	t.Setenv("PORT", "8081")
	t.Setenv("DYNAMODB_TABLE", "todos-prod")
	t.Setenv("REGION", "eu-west-1")
	t.Setenv("CORS_ORIGIN", "https://a.example.com, https://b.example.com")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_EXPIRES_IN", "1d")
	t.Setenv("BREAKER_ENABLED", "false")
	t.Setenv("ENABLE_METRICS", "0")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Address())
	assert.Equal(t, "todos-prod", cfg.Database.TableName)
	assert.Equal(t, "eu-west-1", cfg.Database.Region)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Security.TokenTTL.Std())
	assert.False(t, cfg.Breaker.Enabled)
	assert.False(t, cfg.Features.EnableMetrics)
}

func TestLoad_NodeEnvWinsOverStage(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "test")
	t.Setenv("STAGE", "prod")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.Test, cfg.Environment)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: development
server:
  port: 9000
database:
  driver: memory
security:
  token_ttl: 3600
breaker:
  timeout: 2m
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "environment overrides the file")
	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Security.TokenTTL.Std())
	assert.Equal(t, 2*time.Minute, cfg.Breaker.Timeout.Std())
	assert.Equal(t, "email-index", cfg.Database.EmailIndex, "unset keys keep defaults")
	assert.Equal(t, []string{"defaults", path, "environment"}, cfg.LoadedFrom)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing config file", env: map[string]string{"CONFIG_FILE": "/nonexistent/config.yaml"}},
		{name: "bad duration", env: map[string]string{"JWT_EXPIRES_IN": "7 days"}},
		{name: "bad port", env: map[string]string{"PORT": "http"}},
		{name: "default secret in production", env: map[string]string{"NODE_ENV": "production"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "unknown environment", env: map[string]string{"NODE_ENV": "staging"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, config.Default().Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.Port = 0
		cfg.Security.BcryptCost = 2
		cfg.Breaker.FailureThreshold = 1.5

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "port")
		assert.Contains(t, err.Error(), "bcrypt")
		assert.Contains(t, err.Error(), "threshold")
	})

	t.Run("disabled breaker skips its checks", func(t *testing.T) {
		cfg := config.Default()
		cfg.Breaker.Enabled = false
		cfg.Breaker.FailureThreshold = 0

		assert.NoError(t, cfg.Validate())
	})
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "90", want: 90 * time.Second},
		{in: "1h30m", want: 90 * time.Minute},
		{in: " 15s ", want: 15 * time.Second},
		{in: "", wantErr: true},
		{in: "d", wantErr: true},
		{in: "-1d", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
