package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Store   StoreConfig
	Metrics MetricsConfig
	Tracing TracingConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig contains record store configuration
type StoreConfig struct {
	// Path is the snapshot file; its ".tmp" and ".lock" siblings live next
	// to it.
	Path string
	// Resource is the collection name exposed as the URL path segment.
	Resource string
	// LockTimeout bounds how long an operation waits for the store lock.
	LockTimeout time.Duration
	// Reset overwrites any existing snapshot with an empty one at start-up.
	Reset bool
	// UniqueIDs rejects appends whose id collides with a stored record.
	UniqueIDs bool
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool
}

// TracingConfig contains OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled        bool
	Endpoint       string
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRatio  float64
	InsecureConn   bool
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnvString("TASKVAULT_HOST", ""),
			Port: getEnvInt("TASKVAULT_PORT", 8888),
		},
		Log: LogConfig{
			Level:  getEnvString("TASKVAULT_LOG_LEVEL", "info"),
			Format: getEnvString("TASKVAULT_LOG_FORMAT", "text"),
		},
		Store: StoreConfig{
			Path:        getEnvString("TASKVAULT_STORE_PATH", "./data/taskvault.json"),
			Resource:    getEnvString("TASKVAULT_RESOURCE", "tasks"),
			LockTimeout: getEnvDuration("TASKVAULT_LOCK_TIMEOUT", 5*time.Second),
			Reset:       getEnvBool("TASKVAULT_STORE_RESET", false),
			UniqueIDs:   getEnvBool("TASKVAULT_STORE_UNIQUE_IDS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("TASKVAULT_METRICS_ENABLED", true),
		},
		Tracing: TracingConfig{
			Enabled:        getEnvBool("TASKVAULT_TRACING_ENABLED", false),
			Endpoint:       getEnvString("TASKVAULT_TRACING_ENDPOINT", "otel-collector:4318"),
			ServiceName:    getEnvString("TASKVAULT_TRACING_SERVICE_NAME", "taskvault"),
			ServiceVersion: getEnvString("TASKVAULT_TRACING_SERVICE_VERSION", "1.0.0"),
			Environment:    getEnvString("TASKVAULT_TRACING_ENVIRONMENT", "development"),
			SamplingRatio:  getEnvFloat("TASKVAULT_TRACING_SAMPLING_RATIO", 1.0),
			InsecureConn:   getEnvBool("TASKVAULT_TRACING_INSECURE", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}

	if c.Store.Resource == "" || strings.Contains(c.Store.Resource, "/") {
		return fmt.Errorf("invalid resource name: %q (must be a single non-empty path segment)", c.Store.Resource)
	}

	if c.Store.LockTimeout <= 0 {
		return fmt.Errorf("invalid lock timeout: %v (must be positive)", c.Store.LockTimeout)
	}

	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing endpoint must be specified when tracing is enabled")
		}
		if c.Tracing.SamplingRatio < 0 || c.Tracing.SamplingRatio > 1 {
			return fmt.Errorf("invalid sampling ratio: %f (must be 0.0-1.0)", c.Tracing.SamplingRatio)
		}
	}

	return nil
}

// Address returns the server address in host:port format
func (c *Config) Address() string {
	if c.Server.Host == "" {
		return fmt.Sprintf(":%d", c.Server.Port)
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvString gets a string environment variable with a default value
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
