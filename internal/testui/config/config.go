// Package config loads runtime settings for the testing UI server from
// defaults, an optional YAML file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = "8080"
	defaultPrefix         = "/test"
	defaultTemplatesDir   = "templates"
	defaultLogLevel       = "info"
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultRequestTimeout = 30 * time.Second
	defaultShutdownWait   = 10 * time.Second
)

// Environment variable names.
const (
	EnvConfigFile      = "TESTUI_CONFIG"
	EnvAddress         = "TESTUI_HTTP_ADDR"
	EnvPort            = "PORT"
	EnvPrefix          = "TESTUI_PREFIX"
	EnvTemplatesDir    = "TESTUI_TEMPLATES_DIR"
	EnvReload          = "TESTUI_RELOAD"
	EnvLogLevel        = "TESTUI_LOG_LEVEL"
	EnvRequestTimeout  = "TESTUI_REQUEST_TIMEOUT"
	EnvShutdownTimeout = "TESTUI_SHUTDOWN_TIMEOUT"
)

// Config captures the server settings.
type Config struct {
	Address         string        `yaml:"address"`
	Prefix          string        `yaml:"prefix"`
	TemplatesDir    string        `yaml:"templates_dir"`
	Reload          bool          `yaml:"reload"`
	LogLevel        string        `yaml:"log_level"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Address:         ":" + defaultPort,
		Prefix:          defaultPrefix,
		TemplatesDir:    defaultTemplatesDir,
		LogLevel:        defaultLogLevel,
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		IdleTimeout:     defaultIdleTimeout,
		RequestTimeout:  defaultRequestTimeout,
		ShutdownTimeout: defaultShutdownWait,
	}
}

// Load builds the configuration. An empty path skips the YAML file.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	invalid := cfg.applyEnv(os.LookupEnv)
	if err := cfg.validate(invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) []string {
	var invalid []string

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key, field string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			invalid = append(invalid, field)
			return
		}
		*dst = d
	}

	// Cloud Run style PORT applies only when no explicit address is set.
	if v, ok := lookup(EnvAddress); ok && strings.TrimSpace(v) != "" {
		c.Address = strings.TrimSpace(v)
	} else if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		c.Address = ":" + strings.TrimSpace(v)
	}
	str(EnvPrefix, &c.Prefix)
	str(EnvTemplatesDir, &c.TemplatesDir)
	str(EnvLogLevel, &c.LogLevel)

	if v, ok := lookup(EnvReload); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			invalid = append(invalid, "reload")
		} else {
			c.Reload = b
		}
	}

	dur(EnvRequestTimeout, "request_timeout", &c.RequestTimeout)
	dur(EnvShutdownTimeout, "shutdown_timeout", &c.ShutdownTimeout)

	return invalid
}

func (c *Config) validate(invalid []string) error {
	fields := append([]string(nil), invalid...)

	if strings.TrimSpace(c.Address) == "" {
		fields = append(fields, "address")
	}
	if !strings.HasPrefix(strings.TrimSpace(c.Prefix), "/") {
		fields = append(fields, "prefix")
	}
	if strings.TrimSpace(c.TemplatesDir) == "" {
		fields = append(fields, "templates_dir")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		fields = append(fields, "log_level")
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"request_timeout", c.RequestTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 && !contains(fields, t.name) {
			fields = append(fields, t.name)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
