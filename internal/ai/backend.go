package ai

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// BackendConfig selects and authenticates a provider.
type BackendConfig struct {
	Provider     string
	GoogleAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
}

// NewBackend builds the configured provider client. It returns a nil Backend
// and no error when the selected provider has no credential: that is a
// generation-time failure, not a startup one.
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		if cfg.GoogleAPIKey == "" {
			return nil, nil
		}
		c, err := NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		c, err := NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, errors.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
