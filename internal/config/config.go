package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no LLM credential is configured.
var ErrMissingAPIKey = errors.New("GROQ_API_KEY not found in environment variables")

// Store drivers accepted by USER_STORE.
const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	AppEnv     string
	LogLevel   string

	UserStore    string // csv or sqlite
	UserDataFile string // CSV credential table
	DatabasePath string // SQLite credential table

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string
	LLMTimeout  time.Duration

	JWTSecret            string
	SessionIdleTimeout   time.Duration
	SessionSweepSchedule string // standard cron expression
	AllowedOrigins       []string
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads a .env file if present, then loads configuration from environment
// variables or sets defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}

	idle, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		ServerPort:           port,
		AppEnv:               getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		UserStore:            strings.ToLower(getEnv("USER_STORE", StoreCSV)),
		UserDataFile:         getEnv("USER_DATA_FILE", "user_data.csv"),
		DatabasePath:         getEnv("DATABASE_PATH", "./recipes.db"),
		GroqAPIKey:           os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:          getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:            getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		LLMTimeout:           llmTimeout,
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SessionIdleTimeout:   idle,
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "*/5 * * * *"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would make the app unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GroqAPIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.UserStore != StoreCSV && c.UserStore != StoreSQLite {
		return fmt.Errorf("invalid USER_STORE %q: expected %q or %q", c.UserStore, StoreCSV, StoreSQLite)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
