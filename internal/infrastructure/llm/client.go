package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsAnalyzer/pkg/backoff"
)

// chatMessage is one entry of the completion conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the exact request body the completion deployment expects.
type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client is the shared transport for both LLM stages. Transport failures are
// retried; a response that arrived but cannot be decoded is terminal because a
// second attempt would not parse any better.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	maxTokens   int
	temperature float64
	retry       backoff.Policy
	log         *slog.Logger
}

func NewClient(endpoint string, maxTokens int, temperature float64, log *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		endpoint:    endpoint,
		maxTokens:   maxTokens,
		temperature: temperature,
		retry:       backoff.Policy{Attempts: 5, Base: 2 * time.Second},
		log:         log,
	}
}

// complete sends the conversation and returns the first choice's content.
func (c *Client) complete(ctx context.Context, token string, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var content string
	err = c.retry.Retry(ctx, func() (backoff.Outcome, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Terminal, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn("completion attempt failed", "error", err)
			return backoff.Retryable, fmt.Errorf("post: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.log.Warn("completion attempt failed", "status", resp.StatusCode)
			return backoff.Retryable, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var payload chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return backoff.Terminal, fmt.Errorf("decode response: %w", err)
		}
		if len(payload.Choices) == 0 {
			return backoff.Terminal, fmt.Errorf("response carried no choices")
		}

		content = payload.Choices[0].Message.Content
		return backoff.Done, nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
