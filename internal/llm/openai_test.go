package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
)

func newTestClient(baseURL string) *OpenAIClient {
	return NewOpenAIClient(config.LLMConfig{
		Provider:        "openai",
		OpenAIAPIKey:    "test-key",
		OpenAIBaseURL:   baseURL,
		OpenAIModel:     "gpt-4o-mini",
		Temperature:     0.1,
		MaxOutputTokens: 256,
		RequestTimeout:  5 * time.Second,
	}, nil)
}

func TestOpenAIGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[{\"a\":1}]"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	out, err := client.Generate(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, out)
}

func TestOpenAIGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Generate(context.Background(), "hola")
	require.Error(t, err)

	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusTooManyRequests, transport.Status)
	assert.Contains(t, transport.Body, "rate limited")
}

func TestOpenAIGenerateMalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Generate(context.Background(), "hola")
	require.Error(t, err)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Body, "choices")
}

func TestOpenAIGenerateCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := newTestClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Generate(ctx, "hola")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenAIModelSwap(t *testing.T) {
	client := newTestClient("http://localhost")
	assert.Equal(t, "gpt-4o-mini", client.Model())
	client.SetModel("gpt-4o")
	assert.Equal(t, "gpt-4o", client.Model())
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "mystery"}, nil)
	require.Error(t, err)
}
