package chat

import "github.com/Vovarama1992/support-chat-relay/internal/ai"

// Project maps stored messages onto provider turns, one to one and in order.
func Project(messages []Message) []ai.Turn {
	out := make([]ai.Turn, 0, len(messages))
	for _, m := range messages {
		out = append(out, ai.Turn{Role: m.Sender.Role(), Content: m.Text})
	}
	return out
}
