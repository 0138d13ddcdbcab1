package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-3.5-turbo"
)

// ChatMessage is one turn of a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an OpenAI-compatible chat completions endpoint. A
// client without an API key is disabled; callers are expected to check
// Enabled and fall back to local behavior.
type Client struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewClient creates a chat client. Empty endpoint and model select the
// OpenAI defaults.
func NewClient(apiKey, endpoint, model string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = defaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{apiKey: apiKey, endpoint: endpoint, model: model, client: httpClient}
}

// Enabled reports whether the client has credentials to work with.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Complete sends a chat completion request and returns the first choice's
// content.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("no API key configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"temperature": 0.3,
		"max_tokens":  2000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat service returned status %d", resp.StatusCode)
	}

	var body struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", fmt.Errorf("chat response carried no choices")
	}
	return body.Choices[0].Message.Content, nil
}
