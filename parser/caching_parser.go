package parser

import (
	"context"
	"fmt"

	"feed-refresher/domain"
	"feed-refresher/metrics"
	"feed-refresher/port"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingParser memoizes parse results by feed URL and content checksum.
// Cached feeds are shared between workers and must not be modified.
type CachingParser struct {
	next  port.FeedParserPort
	cache *lru.Cache[string, *domain.ParsedFeed]
}

func NewCachingParser(next port.FeedParserPort, size int) (*CachingParser, error) {
	cache, err := lru.New[string, *domain.ParsedFeed](size)
	if err != nil {
		return nil, fmt.Errorf("create parse cache: %w", err)
	}
	return &CachingParser{next: next, cache: cache}, nil
}

func (c *CachingParser) ParseFeed(ctx context.Context, result *domain.FetchResult) (*domain.ParsedFeed, error) {
	if result == nil || result.Checksum == "" {
		return c.next.ParseFeed(ctx, result)
	}
	// The checksum of a channel info page says nothing about its messages.
	if _, preview, ok := TelegramChannel(result.URL); ok && !preview {
		return c.next.ParseFeed(ctx, result)
	}

	key := result.URL + "#" + result.Checksum
	if feed, ok := c.cache.Get(key); ok {
		metrics.RecordParseCache(true)
		return feed, nil
	}
	metrics.RecordParseCache(false)

	feed, err := c.next.ParseFeed(ctx, result)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, feed)
	return feed, nil
}
