package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient("gpt-4o-mini", Options{
		APIKey:      "test",
		BaseURL:     srv.URL + "/v1",
		MaxTokens:   100,
		Temperature: 0.2,
	}, zap.NewNop())
}

func TestComplete(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: `{"domain":"acme.com"}`},
			}},
		})
	})

	text, err := client.Complete(context.Background(), "For the company 'Acme'")
	require.NoError(t, err)
	assert.Equal(t, `{"domain":"acme.com"}`, text)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "For the company 'Acme'", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
	assert.Equal(t, "openai:gpt-4o-mini", client.Name())
}

func TestComplete_HTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	var endpointErr *core.EndpointError
	require.True(t, errors.As(err, &endpointErr))
	assert.Equal(t, http.StatusTooManyRequests, endpointErr.StatusCode)
	assert.Equal(t, "openai:gpt-4o-mini", endpointErr.Endpoint)
}

func TestComplete_EmptyChoices(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}
