package chat

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Vovarama1992/support-chat-relay/internal/ai"
)

type service struct {
	repo Repo
	ai   ai.Generator
}

func NewService(repo Repo, generator ai.Generator) Service {
	return &service{
		repo: repo,
		ai:   generator,
	}
}

func (s *service) HandleMessage(ctx context.Context, text string, sessionID string) (*Reply, error) {
	conversationID, err := s.resolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("component", "svc").Str("conversation_id", conversationID).Logger()
	logger.Debug().Int("text_len", len(text)).Msg("incoming message")

	userMsg, err := s.repo.AppendMessage(ctx, conversationID, SenderUser, text)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// the new message goes to the model as the explicit turn, not as history
	history := Project(withoutMessage(stored, userMsg.ID))

	reply, err := s.ai.GenerateReply(ctx, history, text)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AppendMessage(ctx, conversationID, SenderAI, reply); err != nil {
		// the reply is still returned; only history loses it
		logger.Error().Err(err).Msg("failed to persist ai reply")
	}

	return &Reply{Reply: reply, SessionID: conversationID}, nil
}

// resolveSession returns sessionID if it names a stored conversation and a
// freshly created one otherwise.
func (s *service) resolveSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		exists, err := s.repo.ConversationExists(ctx, sessionID)
		if err != nil {
			return "", err
		}
		if exists {
			return sessionID, nil
		}
	}

	id, err := s.repo.CreateConversation(ctx)
	if err != nil {
		return "", err
	}
	if sessionID != "" {
		log.Info().Str("component", "svc").Str("requested", sessionID).Str("conversation_id", id).Msg("unknown session, created new conversation")
	}
	return id, nil
}

func (s *service) History(ctx context.Context, sessionID string) ([]Message, error) {
	return s.repo.ListMessages(ctx, sessionID)
}

func withoutMessage(messages []Message, id string) []Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].ID == id {
			out := make([]Message, 0, len(messages)-1)
			out = append(out, messages[:i]...)
			return append(out, messages[i+1:]...)
		}
	}
	return messages
}
