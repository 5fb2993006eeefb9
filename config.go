package httpclient

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nelix/http-client/middlewares"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// Config describes a RequestExecutor and its middleware stack.
type Config struct {
	// Timeout is the client timeout. Defaults to 30s.
	Timeout Duration `yaml:"timeout" toml:"timeout"`
	// LogLevel is one of debug, info, warn, error or silent. Defaults to info.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// LogRequests adds the request logging middleware.
	LogRequests bool `yaml:"log_requests" toml:"log_requests"`
	// SlowThreshold enables the performance monitor when positive.
	SlowThreshold Duration `yaml:"slow_threshold" toml:"slow_threshold"`

	BaseHeaders map[string]string `yaml:"headers" toml:"headers"`
	UserAgent   string            `yaml:"user_agent" toml:"user_agent"`
	BearerToken string            `yaml:"bearer_token" toml:"bearer_token"`

	RequestID        bool `yaml:"request_id" toml:"request_id"`
	Metrics          bool `yaml:"metrics" toml:"metrics"`
	ErrorDiagnostics bool `yaml:"error_diagnostics" toml:"error_diagnostics"`
}

// Duration is a time.Duration read from strings such as "1.5s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = Duration(defaultTimeout)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.SlowThreshold < 0 {
		return fmt.Errorf("slow_threshold must not be negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "silent":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, silent (got: %s)", c.LogLevel)
	}

	for name := range c.BaseHeaders {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("headers must not contain an empty name")
		}
	}

	return nil
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file.
// Defaults are applied and the result is validated.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return &cfg, nil
}

// NewRequestExecutorFromConfig builds an executor from cfg. Middleware are installed
// outermost first in this order: error diagnostics, request id, logging, performance,
// metrics, headers, user agent, bearer token. Metrics go to reg, the default registry
// when nil.
func NewRequestExecutorFromConfig(cfg Config, reg prometheus.Registerer) (*RequestExecutor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.LogLevel)

	re := NewRequestExecutor(http.Client{Timeout: time.Duration(cfg.Timeout)})
	re.Logger = logger

	var stack []middlewares.Middleware
	if cfg.ErrorDiagnostics {
		stack = append(stack, middlewares.EnhanceError())
	}
	if cfg.RequestID {
		stack = append(stack, middlewares.RequestID())
	}
	if cfg.LogRequests {
		stack = append(stack, middlewares.LoggerMiddleware(logger))
	}
	if cfg.SlowThreshold > 0 {
		stack = append(stack, middlewares.PerformanceMiddleware(time.Duration(cfg.SlowThreshold), logger))
	}
	if cfg.Metrics {
		stack = append(stack, middlewares.NewMetrics(reg).Middleware())
	}
	if len(cfg.BaseHeaders) > 0 {
		stack = append(stack, middlewares.Headers(cfg.BaseHeaders))
	}
	if cfg.UserAgent != "" {
		stack = append(stack, middlewares.UserAgent(cfg.UserAgent))
	}
	if cfg.BearerToken != "" {
		stack = append(stack, middlewares.BearerAuth(cfg.BearerToken))
	}

	return re.WithMiddlewares(stack...), nil
}
