// Package metrics exposes Prometheus collectors for subscriptions and polling.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rss_reader_submissions_total",
		Help: "Feed submissions by result (success or error kind)",
	}, []string{"result"})

	PollCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rss_reader_poll_cycles_total",
		Help: "Completed polling cycles by status",
	}, []string{"status"})

	PollCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rss_reader_poll_cycle_duration_seconds",
		Help:    "Duration of a single fetch, parse and merge cycle",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	PostsAddedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rss_reader_posts_added_total",
		Help: "Posts inserted into the store by origin (submission or poll)",
	}, []string{"origin"})

	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rss_reader_fetch_errors_total",
		Help: "Proxy fetch failures by reason",
	}, []string{"reason"})

	PolledFeeds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rss_reader_polled_feeds",
		Help: "Feeds with an active polling loop",
	})
)

func RecordSubmission(result string) {
	SubmissionsTotal.WithLabelValues(result).Inc()
}

func RecordPollCycle(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	PollCyclesTotal.WithLabelValues(status).Inc()
	PollCycleDuration.Observe(duration.Seconds())
}

func RecordPostsAdded(origin string, count int) {
	if count <= 0 {
		return
	}
	PostsAddedTotal.WithLabelValues(origin).Add(float64(count))
}

func RecordFetchError(reason string) {
	FetchErrorsTotal.WithLabelValues(reason).Inc()
}
