package refresh_feed_usecase

import (
	"context"
	"fmt"
	"time"

	"feed-refresher/domain"
	"feed-refresher/metrics"
	"feed-refresher/port"
	"feed-refresher/utils/logger"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// ProcessorConfig bounds the work done for one subscriber.
type ProcessorConfig struct {
	// MaxItemsPerRun caps items handled or found recently saved. Old items
	// do not count.
	MaxItemsPerRun int
	// OldItemWindow is how far back a never-refreshed subscriber looks.
	OldItemWindow time.Duration
}

// SubscriberProcessor walks a parsed feed for one subscriber. Items are either
// saved straight from feed content or registered on the job's ContentTasks.
type SubscriberProcessor struct {
	subscriptions port.SubscriptionPort
	recentSaves   port.RecentSavePort
	saver         port.SaveContentPort
	policy        *bluemonday.Policy
	config        ProcessorConfig
	now           func() time.Time
}

func NewSubscriberProcessor(
	subscriptions port.SubscriptionPort,
	recentSaves port.RecentSavePort,
	saver port.SaveContentPort,
	config ProcessorConfig,
) *SubscriberProcessor {
	return &SubscriberProcessor{
		subscriptions: subscriptions,
		recentSaves:   recentSaves,
		saver:         saver,
		policy:        bluemonday.UGCPolicy(),
		config:        config,
		now:           time.Now,
	}
}

// candidate is an item that passed validation.
type candidate struct {
	item domain.FeedItem
	link string
	date time.Time
}

// Process handles every new item of feed for sub and persists the
// subscriber's refresh state. allowFetchContent is false for feeds whose
// items must be saved from the feed content.
func (p *SubscriberProcessor) Process(
	ctx context.Context,
	tasks *domain.ContentTasks,
	sub domain.Subscriber,
	feedURL string,
	feed *domain.ParsedFeed,
	fetch *domain.FetchResult,
	allowFetchContent bool,
) (*domain.SubscriberOutcome, error) {
	outcome := &domain.SubscriberOutcome{SubscriptionID: sub.SubscriptionID}
	log := logger.Logger.With("subscription_id", sub.SubscriptionID, "user_id", sub.UserID, "feed_url", feedURL)

	checksum := feed.ChecksumOr(fetch.Checksum)
	if checksum != "" && checksum == sub.LastFetchedChecksum {
		outcome.Status = domain.SubscriberUnchanged
		return outcome, nil
	}

	if feed.LastBuildDate != nil && sub.HasBeenRefreshed() && !feed.LastBuildDate.After(*sub.MostRecentItemDate) {
		outcome.Status = domain.SubscriberStale
		return outcome, nil
	}

	now := p.now()
	established := sub.HasBeenRefreshed()

	var (
		failedAt *time.Time
		newest   *time.Time
		latest   *candidate
		// processed counts items handled or found recently saved.
		processed int
	)

	advance := func(t time.Time) {
		if newest == nil || t.After(*newest) {
			newest = &t
		}
	}

	for _, item := range feed.Items {
		if item.GUID == "" || len(item.Links) == 0 {
			log.WarnContext(ctx, "Skipping feed item", "guid", item.GUID, "error", domain.ErrInvalidFeedItem)
			metrics.RecordItem(metrics.ItemInvalid)
			outcome.Failed++
			failedAt = &now
			continue
		}

		link, err := domain.ResolveItemLink(item.Links, feedURL)
		if err != nil {
			guidURL, guidErr := domain.ValidateURL(item.GUID)
			if guidErr != nil {
				log.WarnContext(ctx, "Skipping feed item without a usable link", "guid", item.GUID, "error", err)
				metrics.RecordItem(metrics.ItemInvalid)
				outcome.Failed++
				failedAt = &now
				continue
			}
			link = domain.CleanURL(guidURL)
		}

		c := candidate{item: item, link: link, date: item.PublishedOr(now)}
		if latest == nil || c.date.After(latest.date) {
			latest = &c
		}

		if p.config.MaxItemsPerRun > 0 && processed >= p.config.MaxItemsPerRun {
			metrics.RecordItem(metrics.ItemOverLimit)
			outcome.Skipped++
			continue
		}

		if p.isOld(item, sub, established, now) {
			metrics.RecordItem(metrics.ItemSkipped)
			outcome.Skipped++
			continue
		}

		handled, err := p.handle(ctx, tasks, sub, feedURL, c, allowFetchContent)
		if err != nil {
			log.WarnContext(ctx, "Failed to save feed item", "url", link, "error", err)
			metrics.RecordItem(metrics.ItemFailed)
			outcome.Failed++
			failedAt = &now
			continue
		}
		if handled {
			outcome.Handled++
		} else {
			outcome.Skipped++
		}
		processed++
		advance(c.date)
	}

	if newest == nil && outcome.Failed == 0 {
		// An established subscriber with no new item keeps its state. Items
		// found recently saved count as new, so a replayed job still persists.
		if established || latest == nil {
			outcome.Status = domain.SubscriberNothingNew
			return outcome, nil
		}

		// A new subscriber always gets the latest item so it has a starting
		// point, even when that item is outside the old item window.
		handled, err := p.handle(ctx, tasks, sub, feedURL, *latest, allowFetchContent)
		if err != nil {
			log.WarnContext(ctx, "Failed to save seed item", "url", latest.link, "error", err)
			metrics.RecordItem(metrics.ItemFailed)
			outcome.Failed++
			failedAt = &now
		} else {
			if handled {
				outcome.Handled++
			}
			outcome.Seeded = true
			advance(latest.date)
		}
	}

	mostRecent := sub.MostRecentItemDate
	if newest != nil {
		mostRecent = newest
	}

	update := domain.RefreshStateUpdate{
		SubscriptionID:      sub.SubscriptionID,
		UserID:              sub.UserID,
		MostRecentItemDate:  mostRecent,
		LastFetchedChecksum: checksum,
		ScheduledAt:         domain.NextScheduledAt(sub.ScheduledAt, feed, now),
		RefreshedAt:         now,
		FailedAt:            failedAt,
	}
	if err := p.subscriptions.UpdateRefreshState(ctx, update); err != nil {
		outcome.Status = domain.SubscriberFailed
		return outcome, fmt.Errorf("update refresh state of %s: %w", sub.SubscriptionID, err)
	}

	outcome.Status = domain.SubscriberUpdated
	return outcome, nil
}

// isOld applies the old item rule. Undated items are never old.
func (p *SubscriberProcessor) isOld(item domain.FeedItem, sub domain.Subscriber, established bool, now time.Time) bool {
	if item.PublishedAt == nil {
		return false
	}
	if established {
		return !item.PublishedAt.After(*sub.MostRecentItemDate)
	}
	return item.PublishedAt.Before(now.Add(-p.config.OldItemWindow))
}

// handle saves or queues one item. It reports false when the item was already
// saved for the user recently.
func (p *SubscriberProcessor) handle(
	ctx context.Context,
	tasks *domain.ContentTasks,
	sub domain.Subscriber,
	feedURL string,
	c candidate,
	allowFetchContent bool,
) (bool, error) {
	saved, err := p.recentSaves.IsRecentlySaved(ctx, sub.UserID, c.link)
	if err != nil {
		logger.Logger.WarnContext(ctx, "Failed to check recently saved marker", "url", c.link, "error", err)
		saved = false
	}
	if saved {
		metrics.RecordItem(metrics.ItemDuplicate)
		return false, nil
	}

	if !useFeedContent(sub.FetchContentType, c.item, allowFetchContent) {
		tasks.Add(c.link, c.item, domain.TaskSubscriber{
			SubscriptionID: sub.SubscriptionID,
			UserID:         sub.UserID,
			Folder:         sub.Folder,
			LibraryItemID:  uuid.New().String(),
		})
		metrics.RecordItem(metrics.ItemQueued)
		return true, nil
	}

	title := c.item.Title
	if title == "" {
		title = c.link
	}

	req := &domain.SaveContentRequest{
		UserID:        sub.UserID,
		LibraryItemID: uuid.New().String(),
		URL:           c.link,
		FeedContent:   p.policy.Sanitize(c.item.PreviewContent()),
		Title:         title,
		Folder:        sub.Folder,
		RSSFeedURL:    feedURL,
		SavedAt:       c.item.PublishedAt,
		PublishedAt:   c.item.PublishedAt,
		State:         domain.SavedItemState,
		Author:        c.item.Author,
		PreviewImage:  c.item.Thumbnail,
		Labels:        []domain.Label{domain.RSSLabel},
	}
	if err := p.saver.SaveFeedItem(ctx, req); err != nil {
		return false, err
	}

	if err := p.recentSaves.MarkRecentlySaved(ctx, sub.UserID, c.link); err != nil {
		logger.Logger.WarnContext(ctx, "Failed to mark item as recently saved", "url", c.link, "error", err)
	}
	metrics.RecordItem(metrics.ItemSaved)
	return true, nil
}

// useFeedContent reports whether an item is saved from the feed supplied
// content instead of a downstream full-content fetch.
func useFeedContent(strategy domain.FetchContentType, item domain.FeedItem, allowFetchContent bool) bool {
	switch {
	case !allowFetchContent:
		return true
	case strategy == domain.FetchContentNever:
		return true
	case strategy == domain.FetchContentWhenEmpty:
		return item.HasInlineContent()
	default:
		return false
	}
}
