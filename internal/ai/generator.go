package ai

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// HistoryWindow is how many stored turns reach the model.
	HistoryWindow = 10

	DefaultMaxOutputTokens int32   = 500
	DefaultTemperature     float32 = 0.7
)

type ReplyGenerator struct {
	backend Backend
	opts    GenerationOptions
}

// NewReplyGenerator wraps backend. A nil backend means no provider
// credential is configured; every call then fails with KindNotConfigured.
func NewReplyGenerator(backend Backend) *ReplyGenerator {
	return &ReplyGenerator{
		backend: backend,
		opts: GenerationOptions{
			MaxOutputTokens: DefaultMaxOutputTokens,
			Temperature:     DefaultTemperature,
		},
	}
}

func (g *ReplyGenerator) Configured() bool {
	return g != nil && g.backend != nil
}

func (g *ReplyGenerator) GenerateReply(
	ctx context.Context,
	history []Turn,
	message string,
) (string, error) {
	if !g.Configured() {
		return "", &Error{Kind: KindNotConfigured, Err: ErrNotConfigured}
	}

	composed := ComposeContext(history)

	raw, err := g.backend.Generate(ctx, composed, message, g.opts)
	if err != nil {
		classified := Classify(err)
		kind, _ := KindOf(classified)
		log.Error().Err(err).Str("component", "ai").Str("kind", string(kind)).Msg("provider error")
		return "", classified
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		log.Warn().Str("component", "ai").Int("raw_len", len(raw)).Msg("empty reply")
		return "", &Error{Kind: KindEmptyReply, Err: ErrEmptyReply}
	}

	return reply, nil
}

// ComposeContext keeps the last HistoryWindow turns and puts the knowledge
// preamble and its acknowledgement in front of them.
func ComposeContext(history []Turn) []Turn {
	window := history
	if len(window) > HistoryWindow {
		window = window[len(window)-HistoryWindow:]
	}

	out := make([]Turn, 0, len(window)+2)
	out = append(out,
		Turn{Role: RoleUser, Content: StoreKnowledgePrompt},
		Turn{Role: RoleModel, Content: StoreKnowledgeAck},
	)
	return append(out, window...)
}
