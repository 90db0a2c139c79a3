package port

import (
	"context"

	"feed-refresher/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=feed_port.go -destination=../mocks/mock_feed_port.go -package=mocks

// FeedFetcherPort retrieves a feed document.
type FeedFetcherPort interface {
	FetchFeed(ctx context.Context, url string) (*domain.FetchResult, error)
}

// FeedParserPort turns a fetched document into feed items.
type FeedParserPort interface {
	ParseFeed(ctx context.Context, result *domain.FetchResult) (*domain.ParsedFeed, error)
}
