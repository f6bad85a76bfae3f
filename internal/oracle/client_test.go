package oracle

import (
	"context"
	stdjson "encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.OracleConfig{
		Endpoint: server.URL,
		Model:    "test-model",
		Timeout:  5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, server
}

func completionBody(text string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` +
		string(mustMarshal(text)) + `},"finish_reason":"stop"}],` +
		`"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`
}

func mustMarshal(s string) []byte {
	b, _ := stdjson.Marshal(s)
	return b
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(config.OracleConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestCompleteSuccess(t *testing.T) {
	var captured chatRequestPayload
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, stdjson.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("REPORT")))
	})

	req := schemas.CompletionRequest{
		Messages: []schemas.Message{
			{Role: schemas.RoleSystem, Content: "persona"},
			{Role: schemas.RoleUser, Content: "pergunta"},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
		Stop:        []string{"</s>"},
	}
	got, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "REPORT", got)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "persona", captured.Messages[0].Content)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	assert.Equal(t, 1000, captured.MaxTokens)
	assert.Equal(t, []string{"</s>"}, captured.Stop)
}

func TestCompleteDefaultStopSequence(t *testing.T) {
	var captured chatRequestPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, stdjson.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(completionBody("ok")))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(config.OracleConfig{
		Endpoint: server.URL,
		Model:    "test-model",
		Stop:     []string{"</s>"},
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// A request without its own stop sequence inherits the configured one.
	_, err = client.Complete(context.Background(), schemas.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"</s>"}, captured.Stop)
}

func TestCompleteErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Complete(context.Background(), schemas.CompletionRequest{})
	require.Error(t, err)

	var perr *schemas.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "oracle", perr.Provider)
}

func TestCompleteNoChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), schemas.CompletionRequest{})
	var perr *schemas.ProviderError
	require.ErrorAs(t, err, &perr)
}

func TestCompleteMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Complete(context.Background(), schemas.CompletionRequest{})
	var perr *schemas.ProviderError
	require.ErrorAs(t, err, &perr)
}

func TestCompleteSingleAttempt(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), schemas.CompletionRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "oracle calls are never retried in-core")
}

func TestCompleteContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(completionBody("late")))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Complete(ctx, schemas.CompletionRequest{})
	assert.Error(t, err)
}
