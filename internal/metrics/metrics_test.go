package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequests.WithLabelValues("anthropic", "429"))
	ObserveUpstream("anthropic", 429, 120*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(upstreamRequests.WithLabelValues("anthropic", "429")))

	before = testutil.ToFloat64(upstreamRequests.WithLabelValues("elevenlabs", "transport_error"))
	ObserveUpstream("elevenlabs", 0, time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(upstreamRequests.WithLabelValues("elevenlabs", "transport_error")))
}

func TestHandlerExposesCounters(t *testing.T) {
	StoryGenerated("ok")
	Narrated("failed")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `verhalen_stories_generated_total{result="ok"}`)
	assert.Contains(t, string(body), `verhalen_narrations_total{result="failed"}`)
}
