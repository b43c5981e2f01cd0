package ai

import "context"

// Role — provider-neutral speaker of a turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn — универсальный формат диалога для AI
type Turn struct {
	Role    Role
	Content string
}

// GenerationOptions bounds a single backend call.
type GenerationOptions struct {
	MaxOutputTokens int32
	Temperature     float32
}

// Backend — внешний генератор текста, не знает ни про сессии, ни про БД
type Backend interface {
	Generate(
		ctx context.Context,
		history []Turn,
		message string,
		opts GenerationOptions,
	) (string, error)
}

// Generator is what the chat pipeline depends on.
type Generator interface {
	GenerateReply(ctx context.Context, history []Turn, message string) (string, error)
}
