package questions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "mistralai/mistral-7b-instruct",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Question: What is your email?\nHelp: Enter a work address."},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer server.Close()

	g, err := NewOpenRouter("test-key", server.URL, "")
	require.NoError(t, err)

	q, err := g.Generate(context.Background(), Field{Name: "email", Type: "email", Label: "Email"}, "Job application")
	require.NoError(t, err)

	assert.Equal(t, "What is your email?", q.Text)
	assert.Equal(t, "Enter a work address.", q.Explanation)
	assert.Equal(t, "email", q.FieldName)

	assert.Equal(t, DefaultOpenRouterModel, captured["model"])
	assert.InDelta(t, 0.7, captured["temperature"], 0.001)
	assert.EqualValues(t, 150, captured["max_tokens"])
	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1].(map[string]any)["content"], "Context: Job application")
}

func TestOpenRouter_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "auth"}}`))
	}))
	defer server.Close()

	g, err := NewOpenRouter("test-key", server.URL, "")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Field{Name: "email"}, "")
	assert.Error(t, err)

	q, err := WithFallback(g, 0, nil).Generate(context.Background(), Field{Name: "email", Type: "email"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid email address.", q.Explanation)
}

func TestNewOpenRouter_RequiresKey(t *testing.T) {
	_, err := NewOpenRouter("", "", "")
	assert.Error(t, err)
}

func TestAnthropic_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "Question: Which plan do you want?\nHelp: Pick free or pro."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 12}
		}`))
	}))
	defer server.Close()

	g, err := NewAnthropic("test-key", "", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	q, err := g.Generate(context.Background(), Field{Name: "plan", Type: "radio"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Which plan do you want?", q.Text)
	assert.Equal(t, "Pick free or pro.", q.Explanation)
	assert.Equal(t, "plan", q.FieldName)
}
