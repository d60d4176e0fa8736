package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"verhalen-machine/internal/upstream"
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	url        string
	version    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// AnthropicOptions configures an AnthropicClient. Zero values fall back to defaults.
type AnthropicOptions struct {
	APIKey     string
	URL        string
	Version    string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

// NewAnthropicClient builds a client. An empty key is accepted; the upstream
// rejects the call and the gateway relays that rejection.
func NewAnthropicClient(opts AnthropicOptions) *AnthropicClient {
	c := &AnthropicClient{
		apiKey:     opts.APIKey,
		url:        opts.URL,
		version:    opts.Version,
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: opts.HTTPClient,
	}
	if c.url == "" {
		c.url = "https://api.anthropic.com/v1/messages"
	}
	if c.version == "" {
		c.version = "2023-06-01"
	}
	if c.model == "" {
		c.model = DefaultAnthropicModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends prompt as a single user message and returns the first text block.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &upstream.Error{Service: "anthropic", StatusCode: resp.StatusCode, Body: respBody}
	}

	var out anthropicResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty content")
	}
	return out.Content[0].Text, nil
}

// Model returns the fixed model identifier sent with every request.
func (c *AnthropicClient) Model() string {
	return c.model
}
