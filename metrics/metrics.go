// Package metrics exposes Prometheus collectors for the blog mirror.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	messagesIngestedTotal *prometheus.CounterVec
	rendersTotal          *prometheus.CounterVec
	renderDurationSeconds prometheus.Histogram
	httpRequestsTotal     *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		messagesIngestedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_messages_ingested_total",
				Help: "Channel messages seen by the pipeline, labeled by result (stored or skipped).",
			},
			[]string{"result"},
		)

		rendersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_renders_total",
				Help: "Pages rendered and published, labeled by trigger.",
			},
			[]string{"trigger"},
		)

		renderDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blog_render_duration_seconds",
				Help:    "Time spent fetching metadata, rendering and publishing one page.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blog_http_requests_total",
				Help: "Requests answered by the static file server, labeled by route.",
			},
			[]string{"route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveIngest counts one message, stored or skipped.
func ObserveIngest(result string) {
	Init()
	messagesIngestedTotal.WithLabelValues(result).Inc()
}

// ObserveIngestCount counts n messages with the same result.
func ObserveIngestCount(result string, n int) {
	Init()
	messagesIngestedTotal.WithLabelValues(result).Add(float64(n))
}

// ObserveRender records one published page.
func ObserveRender(trigger string, duration time.Duration) {
	Init()
	rendersTotal.WithLabelValues(trigger).Inc()
	renderDurationSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest counts one file server request.
func ObserveHTTPRequest(route string) {
	Init()
	httpRequestsTotal.WithLabelValues(route).Inc()
}
