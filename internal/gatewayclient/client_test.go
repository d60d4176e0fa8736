package gatewayclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhalen-machine/internal/story"
	"verhalen-machine/internal/upstream"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/claude", r.URL.Path)
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "pizza?", in["prompt"])
		_, _ = w.Write([]byte(`{"response":"Lang, lang geleden"}`))
	}))
	defer srv.Close()

	text, err := New(srv.URL+"/", nil).Complete(context.Background(), "pizza?")

	require.NoError(t, err)
	assert.Equal(t, "Lang, lang geleden", text)
}

func TestCompleteRelaysStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Claude API error"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Complete(context.Background(), "pizza")

	upErr, ok := upstream.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
}

func TestSpeak(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tts", r.URL.Path)
		_, _ = w.Write([]byte(`{"audio":"SUQz","contentType":"audio/mpeg"}`))
	}))
	defer srv.Close()

	audio, err := New(srv.URL, nil).Speak(context.Background(), "hallo")

	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), audio.Data)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
}

func TestSpeakBadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"audio":"%%%","contentType":"audio/mpeg"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Speak(context.Background(), "hallo")
	assert.ErrorContains(t, err, "decode audio")
}

func TestClientDrivesOrchestrator(t *testing.T) {
	replies := []string{
		`{"deel1":"a","deel2":"b","deel3":"c"}`,
		"Lang, lang geleden was er een fiets zonder trappers.",
		"Toen kwam er een slimme uitvinder met een ketting.",
		"Nu fietsen alle kinderen naar school!",
	}
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		prompts = append(prompts, in["prompt"])
		_ = json.NewEncoder(w).Encode(map[string]string{"response": replies[len(prompts)-1]})
	}))
	defer srv.Close()

	text, err := story.New(New(srv.URL, nil)).Tell(context.Background(), "fiets")

	require.NoError(t, err)
	assert.Len(t, prompts, 4)
	assert.Equal(t, replies[1]+"\n\n"+replies[2]+"\n\n"+replies[3], text)
}
