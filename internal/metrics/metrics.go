// Package metrics holds the Prometheus collectors shared by the gateway and the narrator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is local so tests and multiple binaries don't collide on the default one.
	Registry = prometheus.NewRegistry()

	upstreamRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "verhalen_upstream_requests_total",
			Help: "Upstream API calls, partitioned by service and outcome code.",
		},
		[]string{"service", "code"},
	)
	upstreamDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "verhalen_upstream_request_duration_seconds",
			Help:    "Latency of upstream API calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"service"},
	)
	storiesGenerated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "verhalen_stories_generated_total",
			Help: "Story generations, partitioned by result.",
		},
		[]string{"result"},
	)
	narrations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "verhalen_narrations_total",
			Help: "Narration tasks processed, partitioned by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// ObserveUpstream records one upstream call. code is the HTTP status, or 0 for
// a transport failure.
func ObserveUpstream(service string, code int, elapsed time.Duration) {
	label := "transport_error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	upstreamRequests.WithLabelValues(service, label).Inc()
	upstreamDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// StoryGenerated records a story outcome: "ok" or "failed".
func StoryGenerated(result string) {
	storiesGenerated.WithLabelValues(result).Inc()
}

// Narrated records a narration outcome: "ok" or "failed".
func Narrated(result string) {
	narrations.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
