package consumer

import (
	"context"
	"fmt"

	"feed-refresher/domain"
	"feed-refresher/utils/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RefreshFeedExecutor runs a refresh-feed job.
type RefreshFeedExecutor interface {
	Execute(ctx context.Context, payload *domain.RefreshFeedPayload) (*domain.RefreshResult, error)
}

// DiscoverFeedsExecutor runs a refresh-all-feeds job.
type DiscoverFeedsExecutor interface {
	Execute(ctx context.Context, rc *domain.RefreshContext) (*domain.DiscoveryResult, error)
}

// FeedJobHandler routes jobs to the usecase that implements them.
type FeedJobHandler struct {
	refresh  RefreshFeedExecutor
	discover DiscoverFeedsExecutor
}

// NewFeedJobHandler creates a new FeedJobHandler.
func NewFeedJobHandler(refresh RefreshFeedExecutor, discover DiscoverFeedsExecutor) *FeedJobHandler {
	return &FeedJobHandler{
		refresh:  refresh,
		discover: discover,
	}
}

// HandleJob processes a single job based on its name.
func (h *FeedJobHandler) HandleJob(ctx context.Context, job *domain.Job) error {
	ctx, span := otel.Tracer("feed-refresher").Start(ctx, "job."+string(job.Name))
	defer span.End()
	span.SetAttributes(attribute.String("job.id", job.ID))

	var err error
	switch job.Name {
	case domain.JobNameRefreshFeed:
		err = h.handleRefreshFeed(ctx, job)
	case domain.JobNameRefreshAllFeeds:
		err = h.handleRefreshAllFeeds(ctx, job)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownJob, job.Name)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (h *FeedJobHandler) handleRefreshFeed(ctx context.Context, job *domain.Job) error {
	result, err := h.refresh.Execute(ctx, job.RefreshFeed)
	if err != nil {
		return err
	}

	logger.Logger.InfoContext(ctx, "Processed refresh-feed job",
		append([]any{
			"job_id", job.ID,
			"feed_url", result.FeedURL,
			"items", result.ItemCount,
			"content_tasks", result.ContentTasks,
		}, job.RefreshFeed.RefreshContext.LogAttrs()...)...)
	return nil
}

func (h *FeedJobHandler) handleRefreshAllFeeds(ctx context.Context, job *domain.Job) error {
	rc := job.RefreshAllFeeds.RefreshContext

	result, err := h.discover.Execute(ctx, rc)
	if err != nil {
		return err
	}

	logger.Logger.InfoContext(ctx, "Processed refresh-all-feeds job",
		append([]any{
			"job_id", job.ID,
			"groups", result.Groups,
			"enqueued", result.Enqueued,
			"duplicates", result.Duplicates,
			"failed", result.Failed,
		}, rc.LogAttrs()...)...)
	return nil
}
