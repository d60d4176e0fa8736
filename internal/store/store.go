package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NarrationStatus string

const (
	NarrationNone       NarrationStatus = "none"
	NarrationPending    NarrationStatus = "pending"
	NarrationProcessing NarrationStatus = "processing"
	NarrationReady      NarrationStatus = "ready"
	NarrationFailed     NarrationStatus = "failed"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrAudioNotFound = errors.New("audio not found")
)

// Story is an archived generated story.
type Story struct {
	ID              uuid.UUID
	Topic           string
	Plan            []string
	Parts           []string
	NarrationStatus NarrationStatus
	CreatedAt       time.Time
}

// Audio is the narration of an archived story.
type Audio struct {
	StoryID     uuid.UUID
	Data        []byte
	ContentType string
}

// Store defines the story archive contract.
type Store interface {
	CreateStory(ctx context.Context, topic string, plan, parts []string, status NarrationStatus) (Story, error)
	GetStory(ctx context.Context, id uuid.UUID) (Story, error)
	UpdateNarrationStatus(ctx context.Context, id uuid.UUID, status NarrationStatus) error
	SaveAudio(ctx context.Context, audio Audio) error
	GetAudio(ctx context.Context, id uuid.UUID) (Audio, error)
}

// Text joins the parts the same way the generator presents them.
func (s Story) Text() string {
	return strings.Join(s.Parts, "\n\n")
}
