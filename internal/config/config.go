package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	Port   string
	Env    string
	DBPath string

	// ProxyURL is the credential-holding intermediary the widget should
	// talk to. When empty the service falls back to calling the provider
	// directly with ProviderKey, which puts the credential in this
	// process; acceptable for local development only.
	ProxyURL        string
	ProviderBaseURL string
	ProviderKey     string
	Model           string
	Temperature     float64

	SystemPrompt   string
	HistoryLimit   int // non-system messages kept for context
	RequestTimeout time.Duration
}

const defaultSystemPrompt = "You are a helpful assistant for visitors of this site. " +
	"Answer briefly and plainly. If the visitor tells you their name, use it."

// Load reads configuration from environment variables. In development it
// loads from a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8100"),
		Env:             getEnv("ENV", "development"),
		DBPath:          getEnv("DB_PATH", "chatpane.db"),
		ProxyURL:        os.Getenv("PROXY_URL"),
		ProviderBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ProviderKey:     os.Getenv("OPENAI_API_KEY"),
		Model:           getEnv("MODEL", "gpt-4o-mini"),
		SystemPrompt:    getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
	}

	var err error
	if cfg.Temperature, err = getFloat("TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = getInt("HISTORY_LIMIT", 20); err != nil {
		return nil, err
	}
	timeoutSecs, err := getInt("REQUEST_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.ProxyURL == "" && cfg.ProviderKey == "" {
		return nil, fmt.Errorf("either PROXY_URL or OPENAI_API_KEY must be set")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}
