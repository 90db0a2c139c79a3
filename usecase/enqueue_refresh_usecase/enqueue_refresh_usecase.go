package enqueue_refresh_usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feed-refresher/domain"
	"feed-refresher/port"
	"feed-refresher/utils/logger"
)

var ErrUserIDRequired = errors.New("user id is required")

// EnqueueRefreshUsecase starts discovery runs by enqueuing refresh-all-feeds
// jobs. The worker that picks the job up performs the discovery.
type EnqueueRefreshUsecase struct {
	queue port.JobQueuePort
	now   func() time.Time
}

func NewEnqueueRefreshUsecase(queue port.JobQueuePort) *EnqueueRefreshUsecase {
	return &EnqueueRefreshUsecase{queue: queue, now: time.Now}
}

// EnqueueAll queues the periodic discovery run. Replicas share its job id, so
// only one run is outstanding at a time.
func (u *EnqueueRefreshUsecase) EnqueueAll(ctx context.Context) (*domain.RefreshContext, bool, error) {
	rc := domain.NewRefreshContext(domain.RefreshKindAll, "", u.now())
	added, err := u.enqueue(ctx, rc, domain.JobPriorityLow)
	return rc, added, err
}

// EnqueueForUser queues a high priority discovery run limited to userID's
// subscriptions, typically right after the user added a feed.
func (u *EnqueueRefreshUsecase) EnqueueForUser(ctx context.Context, userID string) (*domain.RefreshContext, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, false, ErrUserIDRequired
	}

	rc := domain.NewRefreshContext(domain.RefreshKindUserAdded, userID, u.now())
	added, err := u.enqueue(ctx, rc, domain.JobPriorityHigh)
	return rc, added, err
}

func (u *EnqueueRefreshUsecase) enqueue(ctx context.Context, rc *domain.RefreshContext, priority domain.JobPriority) (bool, error) {
	job := domain.NewRefreshAllFeedsJob(rc)

	added, err := u.queue.Enqueue(ctx, job, domain.EnqueueOptions{DedupID: job.ID, Priority: priority})
	if err != nil {
		return false, fmt.Errorf("enqueue %s: %w", job.ID, err)
	}

	if added {
		logger.Logger.InfoContext(ctx, "Enqueued discovery run", append([]any{"job_id", job.ID}, rc.LogAttrs()...)...)
	} else {
		logger.Logger.InfoContext(ctx, "Discovery run already queued", "job_id", job.ID)
	}
	return added, nil
}
