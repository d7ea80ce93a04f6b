package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "", 0)
	require.EqualError(t, err, "chatgpt api key cannot be empty")
}

func TestCreateChatCompletion(t *testing.T) {
	var (
		got        ChatCompletionRequest
		gotPath    string
		gotAuthHdr string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthHdr = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"done"},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL+"/v1/", time.Second)
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:       "gpt-test",
		Messages:    []Message{{Role: "user", Content: "hi"}},
		MaxTokens:   50,
		Temperature: 0.3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	require.Equal(t, "done", resp.Choices[0].Message.Content)
	require.Equal(t, &Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}, resp.Usage)

	require.Equal(t, "/v1/chat/completions", gotPath)
	require.Equal(t, "Bearer sk-test", gotAuthHdr)
	require.Equal(t, "gpt-test", got.Model)
	require.Equal(t, 50, got.MaxTokens)
	require.InDelta(t, 0.3, float64(got.Temperature), 1e-6)
}

func TestCreateChatCompletionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate_limit"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}
