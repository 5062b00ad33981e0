package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	t.Run("Returns the first choice's content", func(t *testing.T) {
		// Given: a fake chat-completions endpoint echoing a fixed reply
		var gotPath, gotAuth string
		var gotBody chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"roof"}}]}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, APIKey: "secret", Model: "test-model", Temperature: 0.7})

		// When: requesting a completion
		reply, err := client.Complete(context.Background(), "guess a word")

		// Then: the reply and request shape match
		require.NoError(t, err)
		assert.Equal(t, "roof", reply)
		assert.Equal(t, "/chat/completions", gotPath)
		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "test-model", gotBody.Model)
		require.Len(t, gotBody.Messages, 1)
		assert.Equal(t, "user", gotBody.Messages[0].Role)
		assert.Equal(t, "guess a word", gotBody.Messages[0].Content)
	})

	t.Run("Non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Model: "test-model"})

		_, err := client.Complete(context.Background(), "guess a word")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("Empty choices is ErrNoCompletion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Model: "test-model"})

		_, err := client.Complete(context.Background(), "guess a word")

		require.ErrorIs(t, err, ErrNoCompletion)
	})

	t.Run("Cancelled context aborts the call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"roof"}}]}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Model: "test-model"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Complete(ctx, "guess a word")

		require.Error(t, err)
	})
}
