// Package gatewayclient calls the gateway's /api/claude and /api/tts endpoints.
// It is what a front end uses, so the story orchestrator can run outside the server.
package gatewayclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"verhalen-machine/internal/tts"
	"verhalen-machine/internal/upstream"
)

// Client talks to one gateway instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the gateway at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Complete posts prompt to /api/claude and returns the completion.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := c.post(ctx, "/api/claude", map[string]string{"prompt": prompt}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Speak posts text to /api/tts and returns decoded audio.
func (c *Client) Speak(ctx context.Context, text string) (tts.Audio, error) {
	var out struct {
		Audio       string `json:"audio"`
		ContentType string `json:"contentType"`
	}
	if err := c.post(ctx, "/api/tts", map[string]string{"text": text}, &out); err != nil {
		return tts.Audio{}, err
	}
	data, err := base64.StdEncoding.DecodeString(out.Audio)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("decode audio: %w", err)
	}
	return tts.Audio{Data: data, ContentType: out.ContentType}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &upstream.Error{Service: "gateway" + path, StatusCode: resp.StatusCode, Body: respBody}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
