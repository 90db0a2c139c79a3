package job

import (
	"context"
	"time"

	"feed-refresher/domain"
)

// RefreshAllFeedsJobName is the scheduler name of the periodic discovery job.
const RefreshAllFeedsJobName = "refresh-all-feeds-scheduler"

// DiscoveryEnqueuer queues a discovery run.
type DiscoveryEnqueuer interface {
	EnqueueAll(ctx context.Context) (*domain.RefreshContext, bool, error)
}

// RefreshAllFeedsJob queues a refresh-all-feeds job every interval. The job is
// deduplicated in the queue, so a run still outstanding from this or another
// replica is not queued again.
func RefreshAllFeedsJob(enqueuer DiscoveryEnqueuer, interval, timeout time.Duration) Job {
	return Job{
		Name:     RefreshAllFeedsJobName,
		Interval: interval,
		Timeout:  timeout,
		Fn: func(ctx context.Context) error {
			_, _, err := enqueuer.EnqueueAll(ctx)
			return err
		},
	}
}
