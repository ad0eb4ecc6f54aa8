// Package config handles application configuration loading from environment
// variables. An optional .env file in the working directory is read first;
// variables already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pagesmith/internal/ai"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string

	// StoreBackend selects where documents live: "memory" or "postgres".
	StoreBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey holds exports when ValkeyHost is set; otherwise they are kept
	// in process memory.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	ExportTTL      time.Duration

	// AI provider settings. An empty AIProvider selects template generation.
	AIProvider     string
	AITimeout      time.Duration
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiKey      string
	GeminiModel    string
	GeminiBaseURL  string
	ClaudeKey      string
	ClaudeModel    string
	ClaudeBaseURL  string
	MistralKey     string
	MistralModel   string
	MistralBaseURL string

	// S3-compatible export mirror (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Public    bool
	S3PublicURL string

	// DeployDomain is the host suffix of deploy URLs.
	DeployDomain string

	// GenerateRateLimit is the number of generation requests a client may
	// make per minute.
	GenerateRateLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed or if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "*")),

		StoreBackend: strings.ToLower(envOrDefault("STORE_BACKEND", StoreMemory)),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pagesmith"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pagesmith"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:     strings.ToLower(os.Getenv("AI_PROVIDER")),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
		ClaudeKey:      os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:    os.Getenv("CLAUDE_MODEL"),
		ClaudeBaseURL:  os.Getenv("CLAUDE_BASE_URL"),
		MistralKey:     os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   os.Getenv("MISTRAL_MODEL"),
		MistralBaseURL: os.Getenv("MISTRAL_BASE_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		DeployDomain: envOrDefault("DEPLOY_DOMAIN", "netlify.app"),
	}

	var err error
	if cfg.ValkeyDB, err = intEnv("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.ExportTTL, err = durationEnv("EXPORT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AITimeout, err = durationEnv("AI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.S3Public, err = boolEnv("S3_PUBLIC", true); err != nil {
		return nil, err
	}
	if cfg.GenerateRateLimit, err = intEnv("GENERATE_RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case StoreMemory, StorePostgres:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreMemory, StorePostgres, cfg.StoreBackend)
	}
	if cfg.GenerateRateLimit < 1 {
		return nil, fmt.Errorf("GENERATE_RATE_LIMIT must be positive, got %d", cfg.GenerateRateLimit)
	}

	if cfg.Env == "production" && cfg.StoreBackend == StorePostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, net.JoinHostPort(c.DBHost, c.DBPort), c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesValkey reports whether exports are stored in Valkey.
func (c *Config) UsesValkey() bool {
	return c.ValkeyHost != ""
}

// ProviderConfigs returns the per-provider AI settings keyed by provider
// name. Providers without an API key are skipped by the registry.
func (c *Config) ProviderConfigs() map[string]ai.ProviderConfig {
	return map[string]ai.ProviderConfig{
		"openai":  {APIKey: c.OpenAIKey, Model: c.OpenAIModel, BaseURL: c.OpenAIBaseURL},
		"gemini":  {APIKey: c.GeminiKey, Model: c.GeminiModel, BaseURL: c.GeminiBaseURL},
		"claude":  {APIKey: c.ClaudeKey, Model: c.ClaudeModel, BaseURL: c.ClaudeBaseURL},
		"mistral": {APIKey: c.MistralKey, Model: c.MistralModel, BaseURL: c.MistralBaseURL},
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
