// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	AI         AIConfig         `mapstructure:"ai"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	LogLevel     string `mapstructure:"log_level"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AIConfig contains completion service configuration
type AIConfig struct {
	Provider          string  `mapstructure:"provider"`
	OpenAIKey         string  `mapstructure:"openai_key"`
	OpenAIModel       string  `mapstructure:"openai_model"`
	BaseURL           string  `mapstructure:"base_url"`
	OllamaHost        string  `mapstructure:"ollama_host"`
	OllamaModel       string  `mapstructure:"ollama_model"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// HasCredential reports whether the completion path can be used
func (c AIConfig) HasCredential() bool {
	return c.Provider != "none" && strings.TrimSpace(c.OpenAIKey) != ""
}

// CompletionEnabled reports whether a completion client should be built.
// A local Ollama server needs no credential.
func (c AIConfig) CompletionEnabled() bool {
	switch c.Provider {
	case "ollama":
		return true
	case "openai":
		return c.HasCredential()
	default:
		return false
	}
}

// Timeout returns the per-request timeout of the completion client
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig contains latest-plan store configuration
type CacheConfig struct {
	LatestPlanTTL time.Duration `mapstructure:"latest_plan_ttl"`
}

// RateLimitConfig contains inbound rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// MonitoringConfig contains metrics configuration
type MonitoringConfig struct {
	MetricsEnabled  bool    `mapstructure:"metrics_enabled"`
	MetricsPath     string  `mapstructure:"metrics_path"`
	TracingEnabled  bool    `mapstructure:"tracing_enabled"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	TracingInsecure bool    `mapstructure:"tracing_insecure"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
}

// LoggingConfig contains logger configuration
type LoggingConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	Development bool     `mapstructure:"development"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// LoadDotEnv loads .env style files into the process environment. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/kondate")
	}

	v.SetEnvPrefix("KONDATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The conventional OpenAI variable works as well as the prefixed one.
	if err := v.BindEnv("ai.openai_key", "KONDATE_AI_OPENAI_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kondate")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "kondate.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.openai_key", "")
	v.SetDefault("ai.openai_model", "gpt-3.5-turbo")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.ollama_model", "llama3.2:3b")
	v.SetDefault("ai.max_tokens", 1000)
	v.SetDefault("ai.temperature", 0.9)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.requests_per_second", 3)
	v.SetDefault("ai.burst", 3)

	v.SetDefault("cache.latest_plan_ttl", "720h")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("monitoring.metrics_enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.tracing_enabled", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.tracing_insecure", true)
	v.SetDefault("monitoring.sampling_rate", 0.1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.output_paths", []string{"stdout"})
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	switch c.AI.Provider {
	case "openai", "ollama", "none":
	default:
		return fmt.Errorf("unsupported ai provider: %s", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai temperature must be between 0 and 2, got %v", c.AI.Temperature)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai timeout must be positive")
	}

	if c.Monitoring.SamplingRate < 0 || c.Monitoring.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be between 0 and 1, got %v", c.Monitoring.SamplingRate)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Address returns the HTTP listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
