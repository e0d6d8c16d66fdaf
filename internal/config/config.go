// Package config loads the service configuration from defaults, an
// optional YAML file and environment variables, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Deployment environments.
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// Storage drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

// DefaultJWTSecret is the fallback signing secret. It is refused in
// production.
const DefaultJWTSecret = "your-secret-key"

// Config holds all application configuration.
type Config struct {
	Environment string `yaml:"environment"`

	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Security Security `yaml:"security"`
	Breaker  Breaker  `yaml:"breaker"`
	Logging  Logging  `yaml:"logging"`
	Features Features `yaml:"features"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-"`
}

// Server configures the local HTTP listener.
type Server struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	MaxRequestSize  int64    `yaml:"max_request_size"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// Database selects and configures the storage backend.
type Database struct {
	Driver     string `yaml:"driver"`
	TableName  string `yaml:"table_name"`
	EmailIndex string `yaml:"email_index"`
	UserIndex  string `yaml:"user_index"`
	Region     string `yaml:"region"`
	// Endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

// Security holds token and password settings.
type Security struct {
	JWTSecret     string   `yaml:"jwt_secret"`
	TokenIssuer   string   `yaml:"token_issuer"`
	TokenAudience string   `yaml:"token_audience"`
	TokenTTL      Duration `yaml:"token_ttl"`
	BcryptCost    int      `yaml:"bcrypt_cost"`
}

// Breaker configures the circuit breaker around the storage client.
type Breaker struct {
	Enabled          bool     `yaml:"enabled"`
	MaxRequests      uint32   `yaml:"max_requests"`
	Interval         Duration `yaml:"interval"`
	Timeout          Duration `yaml:"timeout"`
	FailureThreshold float64  `yaml:"failure_threshold"`
	MinRequests      uint32   `yaml:"min_requests"`
}

type Logging struct {
	Level string `yaml:"level"`
}

type Features struct {
	EnableMetrics    bool   `yaml:"enable_metrics"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: Server{
			Port:            3000,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			MaxRequestSize:  10 << 20,
			CORSOrigins:     []string{"*"},
		},
		Database: Database{
			Driver:     DriverDynamoDB,
			TableName:  "serverless-todo-api-dev",
			EmailIndex: "email-index",
			UserIndex:  "userId-createdAt-index",
			Region:     "us-east-1",
		},
		Security: Security{
			JWTSecret:     DefaultJWTSecret,
			TokenIssuer:   "serverless-todo-api",
			TokenAudience: "serverless-todo-api-users",
			TokenTTL:      Duration(7 * 24 * time.Hour),
			BcryptCost:    12,
		},
		Breaker: Breaker{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         Duration(30 * time.Second),
			Timeout:          Duration(60 * time.Second),
			FailureThreshold: 0.8,
			MinRequests:      5,
		},
		Logging: Logging{Level: "info"},
		Features: Features{
			EnableMetrics:    true,
			MetricsNamespace: "todo",
		},
	}
}

// Validate checks that the configuration can start the service.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case Development, Production, Test:
	default:
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port out of range: %d", c.Server.Port))
	}
	if c.Server.MaxRequestSize <= 0 {
		errs = append(errs, errors.New("max request size must be positive"))
	}

	switch c.Database.Driver {
	case DriverDynamoDB:
		if c.Database.TableName == "" {
			errs = append(errs, errors.New("DYNAMODB_TABLE is required"))
		}
		if c.Database.EmailIndex == "" || c.Database.UserIndex == "" {
			errs = append(errs, errors.New("index names are required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Database.Driver))
	}

	if c.Security.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() && c.Security.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.Security.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost out of range: %d", c.Security.BcryptCost))
	}

	if c.Breaker.Enabled && (c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1) {
		errs = append(errs, fmt.Errorf("breaker failure threshold must be in (0, 1]: %v", c.Breaker.FailureThreshold))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Address is the listen address of the local server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Duration is a time.Duration that also accepts bare seconds ("3600") and
// a day suffix ("7d") when parsed from text.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// ParseDuration parses Go duration syntax, bare seconds or whole days
// ("7d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseUint(days, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
