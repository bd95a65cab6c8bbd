package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var supportedProviders = []string{"gemini", "openai", "anthropic"}

const (
	defaultLLMTimeout     = 60 * time.Second
	defaultRequestTimeout = 90 * time.Second

	// time a request keeps after the provider deadline to store a
	// placeholder and respond
	requestHeadroom = 15 * time.Second

	// a waiting submission outlasts the evaluation holding the session lock
	lockWaitMargin = 10 * time.Second
	lockTTLMargin  = 30 * time.Second
)

// service config, read from the environment
type Config struct {
	Port      string
	JWTSecret string

	DBDriver         string
	PostgresHost     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresPort     string
	PostgresSSLMode  string
	SQLitePath       string

	// empty disables the Redis locker and completion events
	RedisAddr string

	Provider       string
	LLMTimeout     time.Duration
	LLMMaxAttempts int
	// deadline of one HTTP request, must leave headroom over LLMTimeout
	RequestTimeout time.Duration

	HiringThreshold  float64
	SummaryFinalizes bool

	SummaryExportEnabled  bool
	SummaryExportSchedule string
	SummaryExportDir      string

	SeedRoleProfiles   bool
	CORSAllowedOrigins []string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		DBDriver:         strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", "postgres"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnvOrDefault("SQLITE_PATH", "interview.db"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		Provider:       strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", defaultLLMTimeout),
		LLMMaxAttempts: getEnvInt("LLM_MAX_ATTEMPTS", 2),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),

		HiringThreshold:  getEnvFloat("HIRING_THRESHOLD", 7.0),
		SummaryFinalizes: getEnvBool("SUMMARY_FINALIZES_SESSION", true),

		SummaryExportEnabled:  getEnvBool("SUMMARY_EXPORT_ENABLED", false),
		SummaryExportSchedule: getEnvOrDefault("SUMMARY_EXPORT_SCHEDULE", "0 2 * * *"),
		SummaryExportDir:      getEnvOrDefault("SUMMARY_EXPORT_DIR", "./exports"),

		SeedRoleProfiles:   getEnvBool("SEED_ROLE_PROFILES", false),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if !isSupportedProvider(config.Provider) {
		return errors.New("unsupported AI provider: " + config.Provider +
			". Currently supported: " + strings.Join(supportedProviders, ", "))
	}
	if config.DBDriver != "postgres" && config.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q: expected postgres or sqlite", config.DBDriver)
	}
	if config.LLMTimeout <= 0 {
		return errors.New("LLM_TIMEOUT must be positive")
	}
	if config.RequestTimeout < config.LLMTimeout+requestHeadroom {
		return fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed LLM_TIMEOUT (%s) by at least %s",
			config.RequestTimeout, config.LLMTimeout, requestHeadroom)
	}
	if config.LLMMaxAttempts < 1 || config.LLMMaxAttempts > 10 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be between 1 and 10, got %d", config.LLMMaxAttempts)
	}
	if config.HiringThreshold <= 0 || config.HiringThreshold > 10 {
		return fmt.Errorf("HIRING_THRESHOLD must be in (0, 10], got %g", config.HiringThreshold)
	}
	if config.SummaryExportEnabled && config.SummaryExportDir == "" {
		return errors.New("SUMMARY_EXPORT_DIR is required when the export job is enabled")
	}
	// Provider API keys are checked by each provider's NewConfig()
	return nil
}

// RequestDeadline is the per-request timeout of the HTTP router.
func (c *Config) RequestDeadline() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return defaultRequestTimeout
}

func (c *Config) llmTimeout() time.Duration {
	if c.LLMTimeout > 0 {
		return c.LLMTimeout
	}
	return defaultLLMTimeout
}

// LockWait is how long a request queues for a session lock. A holder may be
// waiting on the provider for up to LLMTimeout.
func (c *Config) LockWait() time.Duration {
	return c.llmTimeout() + lockWaitMargin
}

// LockTTL bounds how long a distributed session lock survives a crashed
// holder. It outlives any request.
func (c *Config) LockTTL() time.Duration {
	return c.RequestDeadline() + lockTTLMargin
}

// DatabaseDSN returns the connection string for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)
}

func isSupportedProvider(name string) bool {
	for _, p := range supportedProviders {
		if p == name {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// comma separated, blanks dropped
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var items []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultVal
	}
	return items
}
