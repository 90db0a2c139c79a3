package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feed-refresher/domain"

	"github.com/redis/go-redis/v9"
)

// FailureCounterDriver stores consecutive fetch failures per feed in Redis.
type FailureCounterDriver struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFailureCounterDriver creates a counter whose keys expire ttl after the
// last increment.
func NewFailureCounterDriver(client *redis.Client, ttl time.Duration) *FailureCounterDriver {
	return &FailureCounterDriver{client: client, ttl: ttl}
}

// Count returns the current failure count of feedURL, zero when unset.
func (d *FailureCounterDriver) Count(ctx context.Context, feedURL string) (int64, error) {
	n, err := d.client.Get(ctx, domain.FeedFailureKey(feedURL)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get failure count: %w", err)
	}
	return n, nil
}

// Increment adds one failure and renews the expiry in a single MULTI/EXEC.
func (d *FailureCounterDriver) Increment(ctx context.Context, feedURL string) (int64, error) {
	key := domain.FeedFailureKey(feedURL)

	var incr *redis.IntCmd
	_, err := d.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, d.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment failure count: %w", err)
	}

	return incr.Val(), nil
}
