package job_queue_gateway

import (
	"context"
	"testing"
	"time"

	"feed-refresher/domain"
	"feed-refresher/driver"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func newGateway(t *testing.T) (*JobQueueGateway, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queue := driver.NewJobQueueDriver(client, driver.StreamConfig{
		HighPriorityStream: "jobs:high",
		LowPriorityStream:  "jobs:low",
		ConsumerGroup:      "workers",
		DedupPrefix:        "test",
		DedupTTL:           time.Hour,
	})
	return NewJobQueueGateway(queue), client
}

func refreshJob() *domain.Job {
	group := domain.SubscriptionGroup{
		FeedURL:     "https://example.com/rss",
		Subscribers: []domain.Subscriber{{SubscriptionID: "s1", UserID: "u1", FetchContentType: domain.FetchContentAlways, Folder: domain.FolderFollowing}},
	}
	return domain.NewRefreshFeedJob(group, domain.NewRefreshContext(domain.RefreshKindAll, "", time.Now()))
}

func TestJobQueueGateway_Enqueue(t *testing.T) {
	ctx := context.Background()
	gw, client := newGateway(t)
	job := refreshJob()

	added, err := gw.Enqueue(ctx, job, domain.EnqueueOptions{DedupID: job.ID})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = gw.Enqueue(ctx, job, domain.EnqueueOptions{DedupID: job.ID})
	require.NoError(t, err)
	assert.False(t, added, "second enqueue with the same dedup id is dropped")

	entries, err := client.XRange(ctx, "jobs:low", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	msg := driver.ParseMessage(entries[0])
	decoded, err := domain.DecodeJob(msg.JobID, msg.JobName, msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, job.RefreshFeed.FeedURL, decoded.RefreshFeed.FeedURL)
}

func TestJobQueueGateway_HighPriority(t *testing.T) {
	ctx := context.Background()
	gw, client := newGateway(t)
	job := domain.NewRefreshAllFeedsJob(domain.NewRefreshContext(domain.RefreshKindUserAdded, "u1", time.Now()))

	added, err := gw.Enqueue(ctx, job, domain.EnqueueOptions{Priority: domain.JobPriorityHigh})
	require.NoError(t, err)
	assert.True(t, added)

	n, err := client.XLen(ctx, "jobs:high").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJobQueueGateway_RejectsInvalidJob(t *testing.T) {
	gw, client := newGateway(t)

	job := refreshJob()
	job.RefreshFeed.Subscribers = nil

	added, err := gw.Enqueue(context.Background(), job, domain.EnqueueOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidJob)
	assert.False(t, added)

	n, err := client.XLen(context.Background(), "jobs:low").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobQueueGateway_PropagatesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	gw, client := newGateway(t)
	_, err := gw.Enqueue(ctx, refreshJob(), domain.EnqueueOptions{})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, "jobs:low", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	msg := driver.ParseMessage(entries[0])
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", msg.Metadata["traceparent"])
}
