// Package metrics provides Prometheus metrics for the feed refresher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedrefresher"

var (
	// JobsProcessedTotal counts consumed jobs by name and outcome.
	JobsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Total number of jobs processed",
		},
		[]string{"job_name", "status"},
	)

	// JobDuration measures job handling time.
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of job handling in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"job_name"},
	)

	// JobsEnqueuedTotal counts enqueue attempts by priority and outcome.
	JobsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_enqueued_total",
			Help:      "Total number of enqueue attempts",
		},
		[]string{"job_name", "status"},
	)

	// FeedFetchesTotal counts feed fetches by outcome.
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"status"},
	)

	// FeedFetchDuration measures feed fetch time.
	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of feed fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// FeedItemsTotal counts items by how the processor handled them.
	FeedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_items_total",
			Help:      "Total number of feed items by outcome",
		},
		[]string{"outcome"},
	)

	// BlockedFeedsTotal counts refreshes skipped because of the blocklist.
	BlockedFeedsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocked_feeds_total",
			Help:      "Total number of refreshes skipped for blocked feeds",
		},
	)

	// DiscoveryGroupsTotal counts discovered subscription groups by enqueue outcome.
	DiscoveryGroupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_groups_total",
			Help:      "Total number of subscription groups discovered",
		},
		[]string{"status"},
	)

	// ContentDispatchesTotal counts downstream content fetch requests.
	ContentDispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_dispatches_total",
			Help:      "Total number of content fetch requests sent downstream",
		},
		[]string{"status"},
	)

	// ParseCacheTotal counts parse cache lookups.
	ParseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_cache_total",
			Help:      "Total number of parse cache lookups",
		},
		[]string{"result"},
	)
)

// Item outcomes
const (
	ItemSaved     = "saved"
	ItemQueued    = "queued"
	ItemSkipped   = "skipped"
	ItemDuplicate = "duplicate"
	ItemInvalid   = "invalid"
	ItemFailed    = "failed"
	ItemOverLimit = "over_limit"
)

// RecordJob records a consumed job.
func RecordJob(jobName, status string, duration time.Duration) {
	JobsProcessedTotal.WithLabelValues(jobName, status).Inc()
	JobDuration.WithLabelValues(jobName).Observe(duration.Seconds())
}

// RecordEnqueue records an enqueue attempt.
func RecordEnqueue(jobName, status string) {
	JobsEnqueuedTotal.WithLabelValues(jobName, status).Inc()
}

// RecordFeedFetch records a feed fetch.
func RecordFeedFetch(status string, duration time.Duration) {
	FeedFetchesTotal.WithLabelValues(status).Inc()
	FeedFetchDuration.Observe(duration.Seconds())
}

// RecordItem records how one feed item was handled.
func RecordItem(outcome string) {
	FeedItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordBlockedFeed records a refresh skipped by the blocklist.
func RecordBlockedFeed() {
	BlockedFeedsTotal.Inc()
}

// RecordDiscoveryGroup records the enqueue outcome of a discovered group.
func RecordDiscoveryGroup(status string) {
	DiscoveryGroupsTotal.WithLabelValues(status).Inc()
}

// RecordContentDispatch records a downstream content fetch request.
func RecordContentDispatch(status string) {
	ContentDispatchesTotal.WithLabelValues(status).Inc()
}

// RecordParseCache records a parse cache hit or miss.
func RecordParseCache(hit bool) {
	if hit {
		ParseCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	ParseCacheTotal.WithLabelValues("miss").Inc()
}
