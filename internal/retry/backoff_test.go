package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},  // base * 2^0
		{1, 200 * time.Millisecond},  // base * 2^1
		{2, 400 * time.Millisecond},  // base * 2^2
		{3, 800 * time.Millisecond},  // base * 2^3
		{4, 1600 * time.Millisecond}, // base * 2^4
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExponentialBackoff(tt.attempt, base), "attempt %d", tt.attempt)
	}
}

func TestCappedBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, CappedBackoff(1, time.Second, 30*time.Second))
	assert.Equal(t, 16*time.Second, CappedBackoff(4, time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, CappedBackoff(5, time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, CappedBackoff(62, time.Second, 30*time.Second))
}
