package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateStory(ctx context.Context, topic string, plan, parts []string, status NarrationStatus) (Story, error) {
	args := m.Called(ctx, topic, plan, parts, status)
	return args.Get(0).(Story), args.Error(1)
}

func (m *MockStore) GetStory(ctx context.Context, id uuid.UUID) (Story, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Story), args.Error(1)
}

func (m *MockStore) UpdateNarrationStatus(ctx context.Context, id uuid.UUID, status NarrationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStore) SaveAudio(ctx context.Context, audio Audio) error {
	args := m.Called(ctx, audio)
	return args.Error(0)
}

func (m *MockStore) GetAudio(ctx context.Context, id uuid.UUID) (Audio, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Audio), args.Error(1)
}
