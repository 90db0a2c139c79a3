package refresh_feed_usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feed-refresher/domain"
	"feed-refresher/metrics"
	"feed-refresher/port"
	"feed-refresher/utils/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// RefreshFeedUsecase refreshes one feed URL for every subscriber of a group:
// fetch and parse once, process each subscriber, then dispatch the shared
// content tasks.
type RefreshFeedUsecase struct {
	blocklist     port.BlocklistPort
	fetcher       port.FeedFetcherPort
	parser        port.FeedParserPort
	subscriptions port.SubscriptionPort
	processor     *SubscriberProcessor
	dispatcher    *ContentTaskDispatcher
	now           func() time.Time
}

func NewRefreshFeedUsecase(
	blocklist port.BlocklistPort,
	fetcher port.FeedFetcherPort,
	parser port.FeedParserPort,
	subscriptions port.SubscriptionPort,
	processor *SubscriberProcessor,
	dispatcher *ContentTaskDispatcher,
) *RefreshFeedUsecase {
	return &RefreshFeedUsecase{
		blocklist:     blocklist,
		fetcher:       fetcher,
		parser:        parser,
		subscriptions: subscriptions,
		processor:     processor,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

// Execute runs the refresh-feed job described by payload. Feed level failures
// mark every subscriber failed and return a terminal domain error.
func (u *RefreshFeedUsecase) Execute(ctx context.Context, payload *domain.RefreshFeedPayload) (*domain.RefreshResult, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: refresh-feed payload is nil", domain.ErrInvalidJob)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer("feed-refresher").Start(ctx, "usecase.RefreshFeed")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed.url", payload.FeedURL),
		attribute.Int("feed.subscribers", len(payload.Subscribers)),
	)

	log := logger.Logger.With(append([]any{"feed_url", payload.FeedURL}, payload.RefreshContext.LogAttrs()...)...)
	group := payload.Group()

	blocked, err := u.blocklist.IsBlocked(ctx, payload.FeedURL)
	if err != nil {
		log.WarnContext(ctx, "Blocklist check failed, continuing", "error", err)
	}
	if blocked {
		metrics.RecordBlockedFeed()
		log.InfoContext(ctx, "Feed is blocked, skipping refresh")
		u.markFailed(ctx, group)
		return nil, fmt.Errorf("%w: %s", domain.ErrFeedBlocked, payload.FeedURL)
	}

	fetched, err := u.fetcher.FetchFeed(ctx, payload.FeedURL)
	if err == nil && fetched == nil {
		err = errors.New("empty fetch result")
	}
	if err != nil {
		span.RecordError(err)
		// Shutdown is not the feed's fault. Leave the job pending.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", payload.FeedURL, ctxErr)
		}
		u.recordFeedFailure(ctx, group)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFeedFetchFailed, payload.FeedURL, err)
	}

	feed, err := u.parser.ParseFeed(ctx, fetched)
	if err != nil {
		span.RecordError(err)
		u.recordFeedFailure(ctx, group)
		if !errors.Is(err, domain.ErrFeedParseFailed) {
			err = fmt.Errorf("%w: %s: %w", domain.ErrFeedParseFailed, payload.FeedURL, err)
		}
		return nil, err
	}

	allowFetchContent := !domain.IsContentFetchBlocked(payload.FeedURL)
	result := &domain.RefreshResult{
		FeedURL:            payload.FeedURL,
		ItemCount:          len(feed.Items),
		Subscribers:        make([]domain.SubscriberOutcome, 0, len(payload.Subscribers)),
		ContentFetchDenied: !allowFetchContent,
	}

	tasks := domain.NewContentTasks()
	for _, sub := range payload.Subscribers {
		outcome, err := u.processSubscriber(ctx, tasks, sub, payload.FeedURL, feed, fetched, allowFetchContent)
		if err != nil {
			log.ErrorContext(ctx, "Failed to process subscriber",
				"subscription_id", sub.SubscriptionID,
				"user_id", sub.UserID,
				"error", err)
		}
		result.Subscribers = append(result.Subscribers, *outcome)
	}

	result.ContentTasks = tasks.Len()
	result.DispatchFailures = u.dispatcher.Dispatch(ctx, payload.FeedURL, tasks)

	span.SetAttributes(
		attribute.Int("feed.items", result.ItemCount),
		attribute.Int("feed.content_tasks", result.ContentTasks),
	)
	log.InfoContext(ctx, "Feed refreshed",
		"items", result.ItemCount,
		"subscribers", len(result.Subscribers),
		"content_tasks", result.ContentTasks,
		"dispatch_failures", result.DispatchFailures)

	return result, nil
}

// processSubscriber isolates one subscriber so a panic or error does not stop
// the rest of the group.
func (u *RefreshFeedUsecase) processSubscriber(
	ctx context.Context,
	tasks *domain.ContentTasks,
	sub domain.Subscriber,
	feedURL string,
	feed *domain.ParsedFeed,
	fetched *domain.FetchResult,
	allowFetchContent bool,
) (outcome *domain.SubscriberOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = &domain.SubscriberOutcome{SubscriptionID: sub.SubscriptionID, Status: domain.SubscriberFailed}
			err = fmt.Errorf("panic while processing subscriber %s: %v", sub.SubscriptionID, r)
		}
	}()

	outcome, err = u.processor.Process(ctx, tasks, sub, feedURL, feed, fetched, allowFetchContent)
	if outcome == nil {
		outcome = &domain.SubscriberOutcome{SubscriptionID: sub.SubscriptionID, Status: domain.SubscriberFailed}
	}
	return outcome, err
}

func (u *RefreshFeedUsecase) recordFeedFailure(ctx context.Context, group domain.SubscriptionGroup) {
	count, err := u.blocklist.RecordFailure(ctx, group.FeedURL)
	if err != nil {
		logger.Logger.WarnContext(ctx, "Failed to record feed failure", "feed_url", group.FeedURL, "error", err)
	} else {
		logger.Logger.InfoContext(ctx, "Recorded feed failure", "feed_url", group.FeedURL, "failures", count)
	}
	u.markFailed(ctx, group)
}

func (u *RefreshFeedUsecase) markFailed(ctx context.Context, group domain.SubscriptionGroup) {
	if err := u.subscriptions.MarkSubscriptionsFailed(ctx, group.SubscriptionIDs(), u.now()); err != nil {
		logger.Logger.ErrorContext(ctx, "Failed to mark subscriptions failed",
			"feed_url", group.FeedURL,
			"subscriptions", len(group.Subscribers),
			"error", err)
	}
}
