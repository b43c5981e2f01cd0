// Package config loads the relay's settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultPort         = "3001"
	DefaultDatabasePath = "data/chat.db"
	// serverless hosts only allow writes under /tmp
	vercelDatabasePath = "/tmp/chat.db"
)

// Config holds the configuration for the relay
type Config struct {
	Port string

	DatabaseURL  string
	DatabasePath string

	AIProvider   string
	GoogleAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	AllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables
func Load() Config {
	config := Config{
		Port:         getenv("PORT", DefaultPort),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getenv("DATABASE_PATH", DefaultDatabasePath),
		AIProvider:   strings.ToLower(getenv("AI_PROVIDER", "gemini")),
		GoogleAPIKey: os.Getenv("GOOGLE_AI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
	}

	if os.Getenv("VERCEL") == "1" {
		config.DatabasePath = vercelDatabasePath
	}

	config.AllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "*"))

	return config
}

// Validate checks that the configuration can be served
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("missing PORT")
	}
	if c.DatabaseURL == "" && c.DatabasePath == "" {
		return fmt.Errorf("one of DATABASE_URL or DATABASE_PATH is required")
	}
	switch c.AIProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q (want gemini or openai)", c.AIProvider)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q (want json or console)", c.LogFormat)
	}
	return nil
}

// HasProviderCredential reports whether the selected provider has a key.
func (c Config) HasProviderCredential() bool {
	if c.AIProvider == "openai" {
		return c.OpenAIAPIKey != ""
	}
	return c.GoogleAPIKey != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
