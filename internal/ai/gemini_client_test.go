package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type geminiRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int32   `json:"maxOutputTokens"`
		Temperature     float32 `json:"temperature"`
	} `json:"generationConfig"`
}

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newGeminiClient(context.Background(), &genai.ClientConfig{
		APIKey:      "k",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "")
	require.NoError(t, err)
	return c
}

func geminiReplying(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	var got geminiRequest
	var path string
	c := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
			{"text":"weighing shipping options","thought":true},
			{"text":"Standard shipping takes 5-7 business days."}
		]},"finishReason":"STOP"}]}`))
	})

	history := []Turn{
		{Role: RoleUser, Content: "preamble"},
		{Role: RoleModel, Content: "ack"},
	}
	reply, err := c.Generate(context.Background(), history, "how long is shipping?",
		GenerationOptions{MaxOutputTokens: DefaultMaxOutputTokens, Temperature: DefaultTemperature})
	require.NoError(t, err)
	assert.Equal(t, "Standard shipping takes 5-7 business days.", reply)

	assert.Contains(t, path, DefaultGeminiModel+":generateContent")
	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "user", got.Contents[2].Role)
	require.Len(t, got.Contents[2].Parts, 1)
	assert.Equal(t, "how long is shipping?", got.Contents[2].Parts[0].Text)
	assert.Equal(t, int32(500), got.GenerationConfig.MaxOutputTokens)
	assert.InDelta(t, 0.7, got.GenerationConfig.Temperature, 1e-6)
}

func TestGeminiClient_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"prompt blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, KindSafetyBlocked},
		{"candidate safety", http.StatusOK, `{"candidates":[{"finishReason":"SAFETY"}]}`, KindSafetyBlocked},
		{"candidate prohibited", http.StatusOK, `{"candidates":[{"finishReason":"PROHIBITED_CONTENT"}]}`, KindSafetyBlocked},
		{"candidate blocklist", http.StatusOK, `{"candidates":[{"finishReason":"BLOCKLIST"}]}`, KindSafetyBlocked},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, KindEmptyReply},
		{"only thoughts", http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"hmm","thought":true}]},"finishReason":"MAX_TOKENS"}]}`, KindEmptyReply},
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, KindAuth},
		{"exhausted", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted.","status":"RESOURCE_EXHAUSTED"}}`, KindRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestGeminiClient(t, geminiReplying(tt.status, tt.body))

			_, err := NewReplyGenerator(c).GenerateReply(context.Background(), nil, "hi")
			kind, ok := KindOf(err)
			require.True(t, ok, "error: %v", err)
			assert.Equal(t, tt.want, kind)
		})
	}
}
