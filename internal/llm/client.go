package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second

	retryBaseDelay   = 2 * time.Second
	retryMaxAttempts = 4
)

// Config holds completion provider configuration from environment variables.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	config Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Tools    []Tool        `json:"tools,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// statusError distinguishes retryable HTTP statuses from hard failures.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("completion request failed: status %d: %s", e.status, e.body)
}

// ChatWithTools sends the message history plus the tool catalog and returns
// the model's next turn. Rate limits and transient server errors are retried
// with exponential backoff; the context bounds the whole exchange.
func (c *Client) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []Tool) (ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(completionRequest{
		Model:    c.config.Model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var resp ChatResponse
	backoff := retry.WithMaxRetries(retryMaxAttempts, retry.NewExponential(retryBaseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var attemptErr error
		resp, attemptErr = c.complete(ctx, body)
		var se *statusError
		if errors.As(attemptErr, &se) && (se.status == http.StatusTooManyRequests || se.status >= 500) {
			return retry.RetryableError(attemptErr)
		}
		return attemptErr
	})
	if err != nil {
		return ChatResponse{}, err
	}
	return resp, nil
}

func (c *Client) complete(ctx context.Context, body []byte) (ChatResponse, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	httpResp, err := c.client.Do(req)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("completion request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return ChatResponse{}, &statusError{status: httpResp.StatusCode, body: truncate(string(data), 200)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ChatResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return ChatResponse{}, fmt.Errorf("completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("completion returned no choices")
	}

	choice := parsed.Choices[0]
	resp := ChatResponse{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}
	// Some providers omit tool-call ids; synthesize them so tool results
	// can still be correlated in the message history.
	for i := range resp.ToolCalls {
		if resp.ToolCalls[i].ID == "" {
			resp.ToolCalls[i].ID = "call_" + uuid.NewString()
		}
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
