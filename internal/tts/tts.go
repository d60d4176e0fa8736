// Package tts forwards narration text to a speech synthesis API.
package tts

import "context"

// ContentTypeMPEG is the only audio format requested from upstream.
const ContentTypeMPEG = "audio/mpeg"

// Audio is synthesized speech.
type Audio struct {
	Data        []byte
	ContentType string
}

// Synthesizer turns text into speech with fixed voice parameters.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Audio, error)
}
