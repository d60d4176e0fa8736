package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"verhalen-machine/internal/upstream"
)

// VoiceSettings are sent verbatim with every synthesis request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings is the storyteller voice profile.
var DefaultVoiceSettings = VoiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.5,
	Style:           0.0,
	UseSpeakerBoost: true,
}

// ElevenLabsClient calls the ElevenLabs text-to-speech endpoint.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	voiceID    string
	model      string
	settings   VoiceSettings
	httpClient *http.Client
}

// NewElevenLabsClient builds a client. An empty key is accepted; upstream
// rejects the call and the gateway relays it.
func NewElevenLabsClient(apiKey, baseURL, voiceID, model string) *ElevenLabsClient {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io/v1"
	}
	return &ElevenLabsClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		voiceID:    voiceID,
		model:      model,
		settings:   DefaultVoiceSettings,
		httpClient: &http.Client{},
	}
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) (Audio, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:          text,
		ModelID:       c.model,
		VoiceSettings: c.settings,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Audio{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", ContentTypeMPEG)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Audio{}, fmt.Errorf("elevenlabs call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("read audio: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Audio{}, &upstream.Error{Service: "elevenlabs", StatusCode: resp.StatusCode, Body: data}
	}
	return Audio{Data: data, ContentType: ContentTypeMPEG}, nil
}

// CacheKeyParts identifies the voice configuration for audio caching.
func (c *ElevenLabsClient) CacheKeyParts() []string {
	return []string{c.voiceID, c.model}
}
