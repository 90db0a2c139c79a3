package discover_feeds_usecase

import (
	"context"
	"fmt"
	"time"

	"feed-refresher/domain"
	"feed-refresher/metrics"
	"feed-refresher/port"
	"feed-refresher/utils/logger"
)

// DiscoverFeedsUsecase finds due subscriptions, groups them by feed URL and
// enqueues one refresh-feed job per group.
type DiscoverFeedsUsecase struct {
	subscriptions port.SubscriptionPort
	queue         port.JobQueuePort
	now           func() time.Time
}

func NewDiscoverFeedsUsecase(subscriptions port.SubscriptionPort, queue port.JobQueuePort) *DiscoverFeedsUsecase {
	return &DiscoverFeedsUsecase{
		subscriptions: subscriptions,
		queue:         queue,
		now:           time.Now,
	}
}

// Execute runs one discovery pass. Only a failed subscription query is
// returned as an error; enqueue failures are counted in the result.
func (u *DiscoverFeedsUsecase) Execute(ctx context.Context, rc *domain.RefreshContext) (*domain.DiscoveryResult, error) {
	now := u.now()
	if rc == nil {
		rc = domain.NewRefreshContext(domain.RefreshKindAll, "", now)
	}
	log := logger.Logger.With(rc.LogAttrs()...)

	subs, err := u.subscriptions.FetchDueSubscriptions(ctx, domain.DueSubscriptionFilter{Now: now, UserID: rc.UserID})
	if err != nil {
		return nil, fmt.Errorf("fetch due subscriptions: %w", err)
	}

	groups := domain.GroupSubscriptions(subs)
	result := &domain.DiscoveryResult{Groups: len(groups)}

	priority := domain.JobPriorityLow
	if rc.Kind == domain.RefreshKindUserAdded {
		priority = domain.JobPriorityHigh
	}

	for _, group := range groups {
		job := domain.NewRefreshFeedJob(group, rc)

		added, err := u.queue.Enqueue(ctx, job, domain.EnqueueOptions{DedupID: job.ID, Priority: priority})
		switch {
		case err != nil:
			result.Failed++
			metrics.RecordDiscoveryGroup("error")
			log.ErrorContext(ctx, "Failed to enqueue refresh-feed job",
				"feed_url", group.FeedURL,
				"job_id", job.ID,
				"error", err)
		case !added:
			result.Duplicates++
			metrics.RecordDiscoveryGroup("duplicate")
		default:
			result.Enqueued++
			metrics.RecordDiscoveryGroup("enqueued")
		}
	}

	log.InfoContext(ctx, "Discovery pass finished",
		"subscriptions", len(subs),
		"groups", result.Groups,
		"enqueued", result.Enqueued,
		"duplicates", result.Duplicates,
		"failed", result.Failed)

	return result, nil
}
