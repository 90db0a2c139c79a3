package fetch_feed_gateway

import (
	"context"
	"time"

	"feed-refresher/domain"
	"feed-refresher/driver"
	"feed-refresher/metrics"
	"feed-refresher/utils/logger"
	"feed-refresher/utils/rate_limiter"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchFeedGateway implements port.FeedFetcherPort. Requests to one host are
// spaced by the shared host rate limiter.
type FetchFeedGateway struct {
	fetcher     *driver.FeedFetchDriver
	rateLimiter *rate_limiter.HostRateLimiter
}

// NewFetchFeedGateway creates a new fetch feed gateway
func NewFetchFeedGateway(fetcher *driver.FeedFetchDriver, rateLimiter *rate_limiter.HostRateLimiter) *FetchFeedGateway {
	return &FetchFeedGateway{
		fetcher:     fetcher,
		rateLimiter: rateLimiter,
	}
}

func (g *FetchFeedGateway) FetchFeed(ctx context.Context, url string) (*domain.FetchResult, error) {
	ctx, span := otel.Tracer("feed-refresher").Start(ctx, "gateway.FetchFeed")
	defer span.End()
	span.SetAttributes(attribute.String("feed.url", url))

	if g.rateLimiter != nil {
		if err := g.rateLimiter.WaitForHost(ctx, url); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rate limit wait failed")
			return nil, err
		}
	}

	start := time.Now()
	result, err := g.fetcher.Fetch(ctx, url)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordFeedFetch("error", duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		logger.Logger.WarnContext(ctx, "Feed fetch failed",
			"feed_url", url,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, err
	}

	metrics.RecordFeedFetch("success", duration)
	span.SetAttributes(attribute.Int("feed.bytes", len(result.Content)))
	logger.Logger.DebugContext(ctx, "Feed fetched",
		"feed_url", url,
		"bytes", len(result.Content),
		"duration_ms", duration.Milliseconds())
	return result, nil
}
