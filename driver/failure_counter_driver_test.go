package driver

import (
	"context"
	"testing"
	"time"

	"feed-refresher/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureCounterDriver(t *testing.T) {
	mr, client := newTestRedis(t)
	driver := NewFailureCounterDriver(client, 24*time.Hour)
	ctx := context.Background()
	const feedURL = "https://example.com/rss"

	count, err := driver.Count(ctx, feedURL)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for want := int64(1); want <= 3; want++ {
		got, err := driver.Increment(ctx, feedURL)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	count, err = driver.Count(ctx, feedURL)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 24*time.Hour, mr.TTL(domain.FeedFailureKey(feedURL)))

	mr.FastForward(12 * time.Hour)
	_, err = driver.Increment(ctx, feedURL)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, mr.TTL(domain.FeedFailureKey(feedURL)), "increment renews expiry")

	mr.FastForward(25 * time.Hour)
	count, err = driver.Count(ctx, feedURL)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestFailureCounterDriver_RedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	driver := NewFailureCounterDriver(client, time.Hour)
	mr.Close()

	_, err := driver.Count(context.Background(), "https://example.com/rss")
	assert.Error(t, err)

	_, err = driver.Increment(context.Background(), "https://example.com/rss")
	assert.Error(t, err)
}
