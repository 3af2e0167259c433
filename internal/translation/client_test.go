package translation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req chatRequest
		if !assert.NoError(t, json.Unmarshal(body, &req)) {
			return
		}
		assert.Equal(t, "test-model", req.Model)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "你好", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "test-model", time.Second)
	out, err := client.Complete(context.Background(), "translate", "你好")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestOpenAIClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "test-model", time.Second)
	_, err := client.Complete(context.Background(), "translate", "你好")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestOpenAIClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "test-model", time.Second)
	_, err := client.Complete(context.Background(), "translate", "你好")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", "test-model", time.Second)
	_, err := client.Complete(context.Background(), "translate", "你好")
	assert.Error(t, err)
}
