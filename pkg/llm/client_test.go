package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/retry"
)

func writeChatCompletion(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newOpenAITestClient(t *testing.T, endpoint string) *OpenAIClient {
	t.Helper()

	client, err := NewOpenAIClient(&OpenAIConfig{Endpoint: endpoint, Model: "test-model"}, zap.NewNop())
	require.NoError(t, err)
	client.retries = &retry.Config{
		MaxRetries:       3,
		InitialDelay:     time.Millisecond,
		MaxDelay:         5 * time.Millisecond,
		Multiplier:       2.0,
		MaxSameErrorType: 5,
	}
	return client
}

func TestGenerateResponse_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		writeChatCompletion(w, "Engineering averages $145,000.")
	}))
	defer srv.Close()

	client := newOpenAITestClient(t, srv.URL)
	got, err := client.GenerateResponse(context.Background(), "prompt", "system", 0.2)

	require.NoError(t, err)
	assert.Equal(t, "Engineering averages $145,000.", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateResponse_AuthFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newOpenAITestClient(t, srv.URL)
	_, err := client.GenerateResponse(context.Background(), "prompt", "system", 0.2)

	require.Error(t, err)
	assert.Equal(t, ErrorTypeAuth, GetErrorType(err))
	assert.Equal(t, int32(1), calls.Load(), "auth failures must not be retried")
}

func TestGenerateResponse_AppliesConfiguredTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
			writeChatCompletion(w, "too late")
		}
	}))
	defer srv.Close()

	client := newOpenAITestClient(t, srv.URL)
	client.timeout = 20 * time.Millisecond
	client.retries.MaxRetries = 0

	start := time.Now()
	_, err := client.GenerateResponse(context.Background(), "prompt", "system", 0.2)

	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "deadline must cut the request short")
}
