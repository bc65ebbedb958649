package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8000"
	DefaultIndicatorCount = 1
	DefaultStubAddr       = "localhost:8000"
	DefaultLogFile        = "cortexdash.log"
	DefaultLogLevel       = "info"
)

type Config struct {
	// APIBaseURL is the root of the analysis service. Fixed for the lifetime of a client.
	APIBaseURL string `json:"api_base_url" yaml:"api_base_url" validate:"required,url"`

	// RequestTimeout bounds a single API call. Zero means no timeout.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" validate:"min=0"`

	// DefaultIndicatorCount is how many of the server's indicators are
	// preselected after the configuration load.
	DefaultIndicatorCount int `json:"default_indicator_count" yaml:"default_indicator_count" validate:"min=0,max=20"`

	LogLevel string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `json:"log_file" yaml:"log_file"`
	Debug    bool   `json:"debug" yaml:"debug"`

	// StubAddr is where `cortexdash stub` listens.
	StubAddr string `json:"stub_addr" yaml:"stub_addr" validate:"required"`
}

func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            DefaultAPIBaseURL,
		RequestTimeout:        0,
		DefaultIndicatorCount: DefaultIndicatorCount,
		LogLevel:              DefaultLogLevel,
		LogFile:               DefaultLogFile,
		Debug:                 false,
		StubAddr:              DefaultStubAddr,
	}
}

// Load builds the configuration from defaults, an optional YAML file, the
// .env file in the working directory and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Save writes c to path as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnv() {
	// VITE_API_URL is what the web build used; keep honoring it.
	if val := os.Getenv("VITE_API_URL"); val != "" {
		c.APIBaseURL = val
	}
	if val := os.Getenv("ANALYSIS_API_URL"); val != "" {
		c.APIBaseURL = val
	}

	if val := os.Getenv("CORTEXDASH_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("CORTEXDASH_DEFAULT_INDICATOR_COUNT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.DefaultIndicatorCount = v
		}
	}

	if val := os.Getenv("CORTEXDASH_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
	}
	if val := os.Getenv("CORTEXDASH_LOG_FILE"); val != "" {
		c.LogFile = val
	}
	if val := os.Getenv("CORTEXDASH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("CORTEXDASH_STUB_ADDR"); val != "" {
		c.StubAddr = val
	}
}

// EffectiveLogLevel returns "debug" when debug mode is on, otherwise LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL, got %q", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s out of range (%s=%s), got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
