package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_PATH", "VERCEL", "AI_PROVIDER",
		"GOOGLE_AI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL",
		"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c := Load()
	assert.Equal(t, DefaultPort, c.Port)
	assert.Equal(t, DefaultDatabasePath, c.DatabasePath)
	assert.Empty(t, c.DatabaseURL)
	assert.Equal(t, "gemini", c.AIProvider)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.HasProviderCredential())
	require.NoError(t, c.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/chat?sslmode=disable")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_FORMAT", "console")

	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "openai", c.AIProvider)
	assert.True(t, c.HasProviderCredential())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	require.NoError(t, c.Validate())
}

func TestLoad_Vercel(t *testing.T) {
	clearEnv(t)
	t.Setenv("VERCEL", "1")
	t.Setenv("DATABASE_PATH", "ignored.db")

	assert.Equal(t, "/tmp/chat.db", Load().DatabasePath)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := Load()

	c := base
	c.AIProvider = "llama"
	assert.ErrorContains(t, c.Validate(), "AI_PROVIDER")

	c = base
	c.LogLevel = "loud"
	assert.ErrorContains(t, c.Validate(), "LOG_LEVEL")

	c = base
	c.LogFormat = "xml"
	assert.ErrorContains(t, c.Validate(), "LOG_FORMAT")

	c = base
	c.DatabasePath = ""
	assert.Error(t, c.Validate())
}
