package aegis

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete observability configuration.
type Config struct {
	// Level sets the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level" json:"level" env:"LOG_LEVEL"`

	// Development enables development mode with:
	// - Pretty console output by default
	// - Caller information in logs
	// - Stack traces on error/fatal
	Development bool `yaml:"development" json:"development" env:"LOG_DEVELOPMENT"`

	// ServiceName identifies this service in logs, traces, and metrics.
	// Default: "unknown"
	ServiceName string `yaml:"service_name" json:"service_name" env:"SERVICE_NAME"`

	// Version is the application version, included in logs and resources.
	Version string `yaml:"version" json:"version" env:"SERVICE_VERSION"`

	// Console output configuration.
	Console ConsoleConfig `yaml:"console" json:"console"`

	// File output configuration (with rotation).
	File FileConfig `yaml:"file" json:"file"`

	// OTEL (OpenTelemetry) log exporter configuration.
	OTEL OTELConfig `yaml:"otel" json:"otel"`

	// Tracing (OpenTelemetry) span exporter configuration.
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`

	// Metrics (OpenTelemetry) metric exporter configuration.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ConsoleConfig configures console (stdout/stderr) output.
type ConsoleConfig struct {
	// Enabled controls whether console output is active.
	// Default: true
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Format: "json" for structured JSON, "pretty" for human-readable,
	// "systemd" for journald-friendly output.
	// Default: "json" (production), "pretty" (development)
	Format string `yaml:"format" json:"format"`

	// Color enables ANSI colors in pretty format.
	// Default: true
	Color bool `yaml:"color" json:"color"`

	// ErrorsToStderr sends warn/error/fatal to stderr, others to stdout.
	// Default: true
	ErrorsToStderr bool `yaml:"errors_to_stderr" json:"errors_to_stderr"`

	// Level overrides the global level for this sink when non-empty.
	Level string `yaml:"level" json:"level"`
}

// FileConfig configures file output with rotation.
type FileConfig struct {
	// Enabled controls whether file output is active.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Path is the log file path.
	// Example: "/var/log/aegis/app.log"
	Path string `yaml:"path" json:"path"`

	// MaxSizeMB is the maximum size in MB before rotation.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb"`

	// MaxAgeDays is the maximum age in days to retain old logs.
	// Default: 7
	MaxAgeDays int `yaml:"max_age_days" json:"max_age_days"`

	// MaxBackups is the maximum number of old log files to keep.
	// Default: 5
	MaxBackups int `yaml:"max_backups" json:"max_backups"`

	// Compress enables gzip compression of rotated log files.
	// Default: true
	Compress bool `yaml:"compress" json:"compress"`

	// Level overrides the global level for this sink when non-empty.
	Level string `yaml:"level" json:"level"`
}

// OTELConfig configures OpenTelemetry log export.
type OTELConfig struct {
	// Enabled controls whether OTEL log export is active.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Protocol: "grpc" or "http". gRPC is recommended for performance.
	// Default: "grpc"
	Protocol string `yaml:"protocol" json:"protocol"`

	// Endpoint is the OTEL collector endpoint.
	// Examples: "localhost:4317" (gRPC), "https://otel.example.com" (scheme
	// implies port and TLS mode)
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Insecure disables TLS for the connection.
	// Default: false
	Insecure bool `yaml:"insecure" json:"insecure"`

	// Username and Password configure HTTP Basic Auth against the collector.
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`

	// Headers are additional headers to send (e.g., auth tokens).
	Headers map[string]string `yaml:"headers" json:"headers"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// BatchSize is the number of logs per export batch.
	// Default: 512
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// ExportInterval is how often to export batched logs.
	// Default: 5s
	ExportInterval time.Duration `yaml:"export_interval" json:"export_interval"`

	// Attributes are additional resource attributes for OTEL.
	// Example: {"environment": "production", "fleet": "evaluators"}
	Attributes map[string]string `yaml:"attributes" json:"attributes"`

	// Level overrides the global level for this sink when non-empty.
	Level string `yaml:"level" json:"level"`
}

// TracingConfig configures OpenTelemetry span export.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Exporter selects the span exporter: "otlp" or "stdout".
	// Default: "otlp"
	Exporter string `yaml:"exporter" json:"exporter"`

	// Endpoint is the OTLP collector endpoint.
	// Falls back to OTEL.Endpoint when empty.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Protocol: "grpc" or "http".
	// Falls back to OTEL.Protocol when empty.
	Protocol string `yaml:"protocol" json:"protocol"`

	// Insecure disables TLS for the connection.
	Insecure bool `yaml:"insecure" json:"insecure"`

	// Username and Password configure HTTP Basic Auth against the collector.
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`

	// Sampler: "always", "never", or "ratio:0.1".
	// Default: "always"
	Sampler string `yaml:"sampler" json:"sampler"`

	// Propagators to register: "tracecontext", "baggage".
	// Default: both.
	Propagators []string `yaml:"propagators" json:"propagators"`

	// BatchSize is the maximum batch size for span export.
	// Default: 512
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// ExportInterval is how often to export batched spans.
	// Default: 5s
	ExportInterval time.Duration `yaml:"export_interval" json:"export_interval"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Headers are additional headers to send.
	Headers map[string]string `yaml:"headers" json:"headers"`

	// Attributes are additional resource attributes.
	Attributes map[string]string `yaml:"attributes" json:"attributes"`
}

// MetricsConfig configures OpenTelemetry metric export.
type MetricsConfig struct {
	// Enabled controls whether metrics are active.
	// Default: false
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Exporter selects the metric exporter: "otlp", "stdout", or "prometheus".
	// Default: "otlp"
	Exporter string `yaml:"exporter" json:"exporter"`

	// Endpoint is the OTLP collector endpoint (unused for prometheus/stdout).
	// Falls back to OTEL.Endpoint when empty.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Protocol: "grpc" or "http".
	// Falls back to OTEL.Protocol when empty.
	Protocol string `yaml:"protocol" json:"protocol"`

	// Insecure disables TLS for the connection.
	Insecure bool `yaml:"insecure" json:"insecure"`

	// Username and Password configure HTTP Basic Auth against the collector.
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`

	// Interval is how often the periodic reader exports.
	// Default: 15s
	Interval time.Duration `yaml:"interval" json:"interval"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Headers are additional headers to send.
	Headers map[string]string `yaml:"headers" json:"headers"`

	// Attributes are additional resource attributes.
	Attributes map[string]string `yaml:"attributes" json:"attributes"`
}

// Default returns a Config with sensible production defaults.
func Default() Config {
	return Config{
		Level:       "info",
		Development: false,
		ServiceName: "unknown",
		Console: ConsoleConfig{
			Enabled:        true,
			Format:         "json",
			Color:          true,
			ErrorsToStderr: true,
		},
		File: FileConfig{
			Enabled:    false,
			MaxSizeMB:  100,
			MaxAgeDays: 7,
			MaxBackups: 5,
			Compress:   true,
		},
		OTEL: OTELConfig{
			Enabled:        false,
			Protocol:       "grpc",
			Insecure:       false,
			Timeout:        10 * time.Second,
			BatchSize:      512,
			ExportInterval: 5 * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:        false,
			Exporter:       "otlp",
			Sampler:        "always",
			BatchSize:      512,
			ExportInterval: 5 * time.Second,
			Timeout:        10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Exporter: "otlp",
			Interval: 15 * time.Second,
			Timeout:  10 * time.Second,
		},
	}
}

// Development returns a Config optimized for development.
func Development() Config {
	cfg := Default()
	cfg.Level = "debug"
	cfg.Development = true
	cfg.Console.Format = "pretty"
	return cfg
}

// WithLevel returns a copy of the config with the specified level.
func (c Config) WithLevel(level string) Config {
	c.Level = level
	return c
}

// WithService returns a copy of the config with the specified service name.
func (c Config) WithService(name string) Config {
	c.ServiceName = name
	return c
}

// WithOTEL returns a copy of the config with OTEL log export enabled.
func (c Config) WithOTEL(endpoint string) Config {
	c.OTEL.Enabled = true
	c.OTEL.Endpoint = endpoint
	return c
}

// WithFile returns a copy of the config with file logging enabled.
func (c Config) WithFile(path string) Config {
	c.File.Enabled = true
	c.File.Path = path
	return c
}

// WithTracing returns a copy of the config with tracing enabled.
// An empty endpoint falls back to the OTEL endpoint at setup time.
func (c Config) WithTracing(endpoint string) Config {
	c.Tracing.Enabled = true
	c.Tracing.Endpoint = endpoint
	return c
}

// WithMetrics returns a copy of the config with OTLP metrics enabled.
// An empty endpoint falls back to the OTEL endpoint at setup time.
func (c Config) WithMetrics(endpoint string) Config {
	c.Metrics.Enabled = true
	c.Metrics.Endpoint = endpoint
	return c
}

// WithPrometheus returns a copy of the config with Prometheus metrics enabled.
// Expose the scrape endpoint via (*Aegis).MetricsHandler.
func (c Config) WithPrometheus() Config {
	c.Metrics.Enabled = true
	c.Metrics.Exporter = "prometheus"
	return c
}

// LoadConfig reads a YAML config file and applies environment overrides.
// Missing file is an error; an empty path returns Default() with overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// FromEnv returns Default() with environment overrides applied.
// Recognized variables: LOG_LEVEL, LOG_DEVELOPMENT, SERVICE_NAME,
// SERVICE_VERSION, OTEL_ENDPOINT, OTEL_PROTOCOL, OTEL_INSECURE,
// TRACING_ENDPOINT, METRICS_ENDPOINT.
func FromEnv() Config {
	cfg := Default()
	applyEnvOverrides(&cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Development = b
		}
	}
	if v := os.Getenv("SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		cfg.Version = v
	}
	if v := os.Getenv("OTEL_ENDPOINT"); v != "" {
		cfg.OTEL.Enabled = true
		cfg.OTEL.Endpoint = v
	}
	if v := os.Getenv("OTEL_PROTOCOL"); v != "" {
		cfg.OTEL.Protocol = v
	}
	if v := os.Getenv("OTEL_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTEL.Insecure = b
		}
	}
	if v := os.Getenv("TRACING_ENDPOINT"); v != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("METRICS_ENDPOINT"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Endpoint = v
	}
}
