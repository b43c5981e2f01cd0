package chat

import (
	"context"
	"time"

	"github.com/Vovarama1992/support-chat-relay/internal/ai"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// Role maps the storage vocabulary onto the provider one.
func (s Sender) Role() ai.Role {
	if s == SenderAI {
		return ai.RoleModel
	}
	return ai.RoleUser
}

type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}

type Reply struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// Repo — persistence
type Repo interface {
	CreateConversation(ctx context.Context) (string, error)
	ConversationExists(ctx context.Context, id string) (bool, error)
	AppendMessage(ctx context.Context, conversationID string, sender Sender, text string) (*Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
}

// Service — оркестрация
type Service interface {
	HandleMessage(ctx context.Context, text string, sessionID string) (*Reply, error)
	History(ctx context.Context, sessionID string) ([]Message, error)
}
