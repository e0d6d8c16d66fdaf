package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration. The loading order, from lowest to highest
// priority:
//  1. Default values
//  2. The YAML file named by CONFIG_FILE, if set
//  3. Environment variables
func Load() (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	if err := loadEnvironmentVariables(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	cfg.Environment = normalizeEnvironment(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentVariables overlays the environment on cfg. Variable names
// follow the deployment descriptors of the service.
func loadEnvironmentVariables(cfg *Config) error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	// NODE_ENV wins over STAGE.
	if val := getEnv("NODE_ENV", os.Getenv("STAGE")); val != "" {
		cfg.Environment = val
	}

	// Server
	collect(setInt("PORT", &cfg.Server.Port))
	collect(setDuration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout))
	if val := os.Getenv("CORS_ORIGIN"); val != "" {
		cfg.Server.CORSOrigins = splitList(val)
	}

	// Database
	setString("STORAGE_DRIVER", &cfg.Database.Driver)
	setString("DYNAMODB_TABLE", &cfg.Database.TableName)
	setString("EMAIL_INDEX_NAME", &cfg.Database.EmailIndex)
	setString("USER_INDEX_NAME", &cfg.Database.UserIndex)
	setString("DYNAMODB_ENDPOINT", &cfg.Database.Endpoint)
	if val := getEnv("REGION", os.Getenv("AWS_REGION")); val != "" {
		cfg.Database.Region = val
	}

	// Security
	setString("JWT_SECRET", &cfg.Security.JWTSecret)
	setString("TOKEN_ISSUER", &cfg.Security.TokenIssuer)
	setString("TOKEN_AUDIENCE", &cfg.Security.TokenAudience)
	collect(setDuration("JWT_EXPIRES_IN", &cfg.Security.TokenTTL))
	collect(setInt("BCRYPT_COST", &cfg.Security.BcryptCost))

	// Circuit breaker
	collect(setBool("BREAKER_ENABLED", &cfg.Breaker.Enabled))
	collect(setUint32("BREAKER_MAX_REQUESTS", &cfg.Breaker.MaxRequests))
	collect(setDuration("BREAKER_INTERVAL", &cfg.Breaker.Interval))
	collect(setDuration("BREAKER_TIMEOUT", &cfg.Breaker.Timeout))
	collect(setFloat("BREAKER_FAILURE_THRESHOLD", &cfg.Breaker.FailureThreshold))
	collect(setUint32("BREAKER_MIN_REQUESTS", &cfg.Breaker.MinRequests))

	// Logging and features
	setString("LOG_LEVEL", &cfg.Logging.Level)
	collect(setBool("ENABLE_METRICS", &cfg.Features.EnableMetrics))
	setString("METRICS_NAMESPACE", &cfg.Features.MetricsNamespace)

	return errors.Join(errs...)
}

// normalizeEnvironment maps stage names onto the known environments.
func normalizeEnvironment(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "dev", "development", "local":
		return Development
	case "prod", "production":
		return Production
	case "test", "testing":
		return Test
	}
	return env
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setString(key string, target *string) {
	if val := os.Getenv(key); val != "" {
		*target = val
	}
}

func setInt(key string, target *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, val)
	}
	*target = n
	return nil
}

func setUint32(key string, target *uint32) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return fmt.Errorf("%s: %q is not a non-negative integer", key, val)
	}
	*target = uint32(n)
	return nil
}

func setFloat(key string, target *float64) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", key, val)
	}
	*target = f
	return nil
}

func setBool(key string, target *bool) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		*target = true
	case "false", "0", "no":
		*target = false
	default:
		return fmt.Errorf("%s: %q is not a boolean", key, val)
	}
	return nil
}

func setDuration(key string, target *Duration) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	d, err := ParseDuration(val)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = Duration(d)
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
