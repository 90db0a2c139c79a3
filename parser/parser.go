package parser

import (
	"context"
	"fmt"

	"feed-refresher/domain"
	"feed-refresher/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Parser picks the Telegram channel parser for t.me URLs and the feed parser
// for everything else. It implements port.FeedParserPort.
type Parser struct {
	feed     *FeedParser
	telegram *TelegramParser
}

func NewParser(fetcher port.FeedFetcherPort) *Parser {
	return &Parser{
		feed:     NewFeedParser(),
		telegram: NewTelegramParser(fetcher),
	}
}

// ParseFeed parses result. Every failure wraps domain.ErrFeedParseFailed.
func (p *Parser) ParseFeed(ctx context.Context, result *domain.FetchResult) (*domain.ParsedFeed, error) {
	ctx, span := otel.Tracer("feed-refresher").Start(ctx, "parser.ParseFeed")
	defer span.End()

	if result == nil {
		return nil, fmt.Errorf("%w: empty fetch result", domain.ErrFeedParseFailed)
	}
	span.SetAttributes(attribute.String("feed.url", result.URL))

	var (
		feed *domain.ParsedFeed
		err  error
	)
	if _, _, ok := TelegramChannel(result.URL); ok {
		feed, err = p.telegram.Parse(ctx, result)
	} else {
		feed, err = p.feed.Parse(result.Content)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFeedParseFailed, result.URL, err)
	}

	span.SetAttributes(
		attribute.String("feed.type", string(feed.Type)),
		attribute.Int("feed.items", len(feed.Items)),
	)
	return feed, nil
}
