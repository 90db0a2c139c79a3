package job_queue_gateway

import (
	"context"
	"fmt"

	"feed-refresher/domain"
	"feed-refresher/driver"
	"feed-refresher/metrics"
	"feed-refresher/utils/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// JobQueueGateway implements port.JobQueuePort on Redis Streams.
type JobQueueGateway struct {
	queue *driver.JobQueueDriver
}

// NewJobQueueGateway creates a new job queue gateway
func NewJobQueueGateway(queue *driver.JobQueueDriver) *JobQueueGateway {
	return &JobQueueGateway{queue: queue}
}

// Enqueue validates and encodes job, then adds it to the stream of
// opts.Priority. The caller's trace context travels in the message metadata.
func (g *JobQueueGateway) Enqueue(ctx context.Context, job *domain.Job, opts domain.EnqueueOptions) (bool, error) {
	if err := job.Validate(); err != nil {
		metrics.RecordEnqueue(jobName(job), "invalid")
		return false, err
	}

	payload, err := job.Payload()
	if err != nil {
		metrics.RecordEnqueue(string(job.Name), "invalid")
		return false, fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	metadata := make(map[string]string)
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(metadata))

	priority := opts.Priority
	if priority == "" {
		priority = domain.JobPriorityLow
	}

	added, err := g.queue.Add(ctx, driver.JobMessage{
		JobID:    job.ID,
		JobName:  string(job.Name),
		Payload:  payload,
		Metadata: metadata,
	}, opts.DedupID, priority)
	if err != nil {
		metrics.RecordEnqueue(string(job.Name), "error")
		return false, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	if !added {
		metrics.RecordEnqueue(string(job.Name), "duplicate")
		logger.Logger.DebugContext(ctx, "Job already queued",
			"job_id", job.ID,
			"job_name", job.Name)
		return false, nil
	}

	metrics.RecordEnqueue(string(job.Name), "enqueued")
	return true, nil
}

func jobName(job *domain.Job) string {
	if job == nil {
		return "unknown"
	}
	return string(job.Name)
}
