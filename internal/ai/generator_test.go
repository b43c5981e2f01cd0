package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	reply string
	err   error

	calls   int
	history []Turn
	message string
	opts    GenerationOptions
}

func (b *recordingBackend) Generate(_ context.Context, history []Turn, message string, opts GenerationOptions) (string, error) {
	b.calls++
	b.history = append([]Turn(nil), history...)
	b.message = message
	b.opts = opts
	return b.reply, b.err
}

func turns(n int) []Turn {
	out := make([]Turn, n)
	for i := range out {
		role := RoleUser
		if i%2 == 1 {
			role = RoleModel
		}
		out[i] = Turn{Role: role, Content: fmt.Sprintf("turn-%d", i)}
	}
	return out
}

func TestGenerateReply_NotConfigured(t *testing.T) {
	g := NewReplyGenerator(nil)
	assert.False(t, g.Configured())

	_, err := g.GenerateReply(context.Background(), nil, "hello")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNotConfigured, kind)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestGenerateReply_ComposesPreambleAndMessage(t *testing.T) {
	b := &recordingBackend{reply: "  We offer a 30-day return window.  \n"}
	g := NewReplyGenerator(b)

	history := turns(3)
	reply, err := g.GenerateReply(context.Background(), history, "What's your return policy?")
	require.NoError(t, err)
	assert.Equal(t, "We offer a 30-day return window.", reply)

	require.Equal(t, 1, b.calls)
	assert.Equal(t, "What's your return policy?", b.message)
	require.Len(t, b.history, 5)
	assert.Equal(t, Turn{Role: RoleUser, Content: StoreKnowledgePrompt}, b.history[0])
	assert.Equal(t, Turn{Role: RoleModel, Content: StoreKnowledgeAck}, b.history[1])
	assert.Equal(t, history, b.history[2:])

	assert.Equal(t, DefaultMaxOutputTokens, b.opts.MaxOutputTokens)
	assert.Equal(t, DefaultTemperature, b.opts.Temperature)
}

func TestGenerateReply_WindowsHistory(t *testing.T) {
	for _, n := range []int{0, 9, 10, 11, 25} {
		t.Run(fmt.Sprintf("history_%d", n), func(t *testing.T) {
			b := &recordingBackend{reply: "ok"}
			g := NewReplyGenerator(b)

			history := turns(n)
			_, err := g.GenerateReply(context.Background(), history, "next")
			require.NoError(t, err)

			kept := n
			if kept > HistoryWindow {
				kept = HistoryWindow
			}
			require.Len(t, b.history, kept+2)
			assert.Equal(t, history[n-kept:], b.history[2:])
		})
	}
}

func TestGenerateReply_EmptyReply(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		g := NewReplyGenerator(&recordingBackend{reply: raw})
		_, err := g.GenerateReply(context.Background(), nil, "hi")
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindEmptyReply, kind)
	}
}

func TestGenerateReply_ClassifiesBackendError(t *testing.T) {
	b := &recordingBackend{err: errors.New("Error 429: RESOURCE_EXHAUSTED")}
	g := NewReplyGenerator(b)

	_, err := g.GenerateReply(context.Background(), turns(2), "hi")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimit, kind)
}

func TestComposeContext_DoesNotAliasInput(t *testing.T) {
	history := turns(12)
	before := append([]Turn(nil), history...)

	composed := ComposeContext(history)
	composed[2].Content = "changed"

	assert.Equal(t, before, history)
}
