package blocklist_gateway

import (
	"context"
	"fmt"

	"feed-refresher/driver"
	"feed-refresher/utils/logger"
)

// BlocklistGateway implements port.BlocklistPort on top of the Redis failure
// counter. A feed is blocked once its count exceeds the threshold.
type BlocklistGateway struct {
	counter   *driver.FailureCounterDriver
	threshold int64
}

// NewBlocklistGateway creates a new blocklist gateway
func NewBlocklistGateway(counter *driver.FailureCounterDriver, threshold int64) *BlocklistGateway {
	return &BlocklistGateway{
		counter:   counter,
		threshold: threshold,
	}
}

// IsBlocked reports whether feedURL failed more than threshold times in a row.
// A counter read error is logged and the feed is treated as not blocked.
func (g *BlocklistGateway) IsBlocked(ctx context.Context, feedURL string) (bool, error) {
	count, err := g.counter.Count(ctx, feedURL)
	if err != nil {
		logger.Logger.WarnContext(ctx, "Failed to read feed failure count, assuming not blocked",
			"feed_url", feedURL,
			"error", err)
		return false, nil
	}

	return count > g.threshold, nil
}

// RecordFailure increments the failure count of feedURL and returns it.
func (g *BlocklistGateway) RecordFailure(ctx context.Context, feedURL string) (int64, error) {
	count, err := g.counter.Increment(ctx, feedURL)
	if err != nil {
		return 0, fmt.Errorf("record failure for %s: %w", feedURL, err)
	}

	if count == g.threshold+1 {
		logger.Logger.WarnContext(ctx, "Feed reached failure threshold and is now blocked",
			"feed_url", feedURL,
			"failures", count)
	}
	return count, nil
}
