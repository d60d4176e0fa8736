package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhalen-machine/internal/upstream"
)

func TestElevenLabsSynthesize(t *testing.T) {
	var got synthesizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, ContentTypeMPEG, r.Header.Get("Accept"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", ContentTypeMPEG)
		_, _ = w.Write([]byte("ID3\x04mp3"))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("xi-key", srv.URL+"/v1/", "voice-1", "eleven_multilingual_v2")
	audio, err := c.Synthesize(context.Background(), "Lang, lang geleden")

	require.NoError(t, err)
	assert.Equal(t, []byte("ID3\x04mp3"), audio.Data)
	assert.Equal(t, ContentTypeMPEG, audio.ContentType)
	assert.Equal(t, "Lang, lang geleden", got.Text)
	assert.Equal(t, "eleven_multilingual_v2", got.ModelID)
	assert.Equal(t, DefaultVoiceSettings, got.VoiceSettings)
	assert.Equal(t, []string{"voice-1", "eleven_multilingual_v2"}, c.CacheKeyParts())
}

func TestElevenLabsSynthesizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	_, err := NewElevenLabsClient("", srv.URL, "voice-1", "m").Synthesize(context.Background(), "hallo")

	upErr, ok := upstream.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, "elevenlabs", upErr.Service)
}
