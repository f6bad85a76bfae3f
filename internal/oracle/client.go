// File: internal/oracle/client.go
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client implements schemas.Oracle against an OpenAI-compatible
// chat-completions endpoint, as served by a local llama.cpp server.
//
// A completion is a single attempt: a failed call is reported to the caller,
// never retried here. The HTTP client timeout bounds how long the oracle
// gate can be held by one call.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	stop       []string
	httpClient *http.Client
	logger     *zap.Logger
}

// -- Chat-completions wire structures (internal to this file) --

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatResponsePayload struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient initializes the completion client.
func NewClient(cfg config.OracleConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("oracle endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		stop:     cfg.Stop,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("oracle"),
	}, nil
}

// Complete sends the request to the completion endpoint and returns the
// generated text. Failures come back as wrapped ProviderErrors.
func (c *Client) Complete(ctx context.Context, req schemas.CompletionRequest) (string, error) {
	stop := req.Stop
	if len(stop) == 0 {
		stop = c.stop
	}
	payload := chatRequestPayload{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        stop,
	}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		c.logger.Error("Completion request failed", zap.Error(err), zap.Duration("duration", duration))
		return "", schemas.NewProviderError("oracle", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", schemas.NewProviderError("oracle", fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Completion endpoint returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody))
		return "", schemas.NewProviderError("oracle",
			fmt.Errorf("completion endpoint: status %d", resp.StatusCode))
	}

	var responsePayload chatResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", schemas.NewProviderError("oracle", fmt.Errorf("failed to decode response payload: %w", err))
	}

	if len(responsePayload.Choices) == 0 {
		return "", schemas.NewProviderError("oracle", fmt.Errorf("completion returned no choices"))
	}

	c.logger.Info("Completion finished",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", responsePayload.Usage.PromptTokens),
		zap.Int("completion_tokens", responsePayload.Usage.CompletionTokens),
		zap.String("finish_reason", responsePayload.Choices[0].FinishReason))

	return responsePayload.Choices[0].Message.Content, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Statically assert the interface.
var _ schemas.Oracle = (*Client)(nil)
