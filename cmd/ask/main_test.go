package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQuestion(t *testing.T) {
	q, err := readQuestion([]string{"best", "beach", "in", "Perth?"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "best beach in Perth?", q)

	q, err = readQuestion(nil, strings.NewReader("  from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", q)

	_, err = readQuestion([]string{"  "}, strings.NewReader(""))
	assert.Error(t, err)
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 0.001)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Howdy!"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	out, err := ask(context.Background(), openai.NewClientWithConfig(cfg), "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free", 0.7, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Howdy!", out)
}

func TestAsk_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("k")
	cfg.BaseURL = srv.URL
	_, err := ask(context.Background(), openai.NewClientWithConfig(cfg), "m", 0, "hi")
	assert.Error(t, err)
}
