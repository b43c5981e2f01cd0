package ai

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai: empty API key")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (c *OpenAIClient) Generate(
	ctx context.Context,
	history []Turn,
	message string,
	opts GenerationOptions,
) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)

	for _, t := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openAIRole(t.Role),
			Content: t.Content,
		})
	}

	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   int(opts.MaxOutputTokens),
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", describeOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		log.Debug().Str("component", "ai").Str("model", c.model).Msg("openai returned no choices")
		return "", nil
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", errors.New("response was blocked by content safety filter")
	}

	return choice.Message.Content, nil
}

// describeOpenAIError names the failure by HTTP status, since OpenAI message
// wording ("Rate limit reached", "Incorrect API key") is not stable.
func describeOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return errors.Wrap(err, "rate limit")
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrap(err, "authentication")
	}
	return err
}

func openAIRole(r Role) string {
	if r == RoleModel {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}
