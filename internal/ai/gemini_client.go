package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty API key")
	}
	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiClient(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "gemini: create client")
	}

	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(
	ctx context.Context,
	history []Turn,
	message string,
	opts GenerationOptions,
) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Content, geminiRole(t.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: opts.MaxOutputTokens,
		Temperature:     genai.Ptr(opts.Temperature),
	})
	if err != nil {
		return "", err
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("prompt was blocked by safety filter: %s %s", fb.BlockReason, fb.BlockReasonMessage)
	}

	if len(resp.Candidates) == 0 {
		log.Debug().Str("component", "ai").Str("model", c.model).Msg("gemini returned no candidates")
		return "", nil
	}

	cand := resp.Candidates[0]
	if blockedFinishReasons[cand.FinishReason] {
		return "", fmt.Errorf("candidate was blocked by safety filter: %s", cand.FinishReason)
	}
	if cand.Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}

	return b.String(), nil
}

// Finish reasons that mean the content filter withheld the answer.
var blockedFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonProhibitedContent: true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonSPII:              true,
}

func geminiRole(r Role) genai.Role {
	if r == RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
