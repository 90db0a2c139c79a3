// Package consumer runs the worker pool that drains the job queue.
package consumer

import (
	"context"
	"fmt"
	"time"

	"feed-refresher/domain"
	"feed-refresher/driver"
	"feed-refresher/metrics"
	"feed-refresher/utils/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

// Config holds consumer configuration.
type Config struct {
	// WorkerCount is the number of concurrent stream readers.
	WorkerCount int
	// BatchSize is the number of messages to read at once.
	BatchSize int64
	// BlockTimeout is how long to block waiting for messages.
	BlockTimeout time.Duration
	// ClaimIdleTime is how long a message may stay pending before another
	// consumer takes it over.
	ClaimIdleTime time.Duration
	// ClaimInterval is how often pending messages are checked.
	ClaimInterval time.Duration
	// JobTimeout bounds the handling of one job.
	JobTimeout time.Duration
}

// JobHandler processes one decoded job.
type JobHandler interface {
	HandleJob(ctx context.Context, job *domain.Job) error
}

// Consumer reads jobs from the Redis Streams queue with a pool of workers.
// Delivery is at-least-once: a job is acknowledged only when it succeeded or
// failed terminally, and messages left pending are reclaimed.
type Consumer struct {
	queue   *driver.JobQueueDriver
	handler JobHandler
	config  Config
	// instance distinguishes consumer names of replicas sharing the group.
	instance string
}

// NewConsumer creates a new Redis Streams consumer.
func NewConsumer(queue *driver.JobQueueDriver, handler JobHandler, config Config) *Consumer {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 1
	}
	return &Consumer{
		queue:    queue,
		handler:  handler,
		config:   config,
		instance: uuid.NewString()[:8],
	}
}

// Run starts the workers and the reclaim loop and blocks until ctx is done or
// the consumer group cannot be created.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.queue.EnsureGroups(ctx); err != nil {
		return fmt.Errorf("ensure consumer groups: %w", err)
	}

	logger.Logger.InfoContext(ctx, "Starting job consumer",
		"streams", c.queue.Streams(),
		"group", c.queue.ConsumerGroup(),
		"workers", c.config.WorkerCount)

	g, ctx := errgroup.WithContext(ctx)
	for i := range c.config.WorkerCount {
		name := c.consumerName(fmt.Sprintf("worker-%d", i))
		g.Go(func() error {
			c.work(ctx, name)
			return nil
		})
	}
	if c.config.ClaimInterval > 0 {
		g.Go(func() error {
			c.reclaim(ctx, c.consumerName("reclaimer"))
			return nil
		})
	}

	err := g.Wait()
	logger.Logger.Info("Job consumer stopped")
	return err
}

func (c *Consumer) consumerName(role string) string {
	return c.instance + "-" + role
}

// work reads and processes messages until ctx is done.
func (c *Consumer) work(ctx context.Context, name string) {
	for {
		if ctx.Err() != nil {
			return
		}

		deliveries, err := c.queue.Read(ctx, name, c.config.BatchSize, c.config.BlockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Logger.ErrorContext(ctx, "Failed to read jobs", "consumer", name, "error", err)
			// Back off on error
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, d := range deliveries {
			c.Process(ctx, d)
		}
	}
}

// reclaim periodically takes over messages that stayed pending past
// ClaimIdleTime, for example after a worker crashed mid-job.
func (c *Consumer) reclaim(ctx context.Context, name string) {
	ticker := time.NewTicker(c.config.ClaimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deliveries, err := c.queue.Claim(ctx, name, c.config.ClaimIdleTime, c.config.BatchSize*10)
			if err != nil {
				if ctx.Err() == nil {
					logger.Logger.ErrorContext(ctx, "Failed to reclaim pending jobs", "error", err)
				}
			}
			if len(deliveries) > 0 {
				logger.Logger.InfoContext(ctx, "Reclaimed pending jobs", "count", len(deliveries))
			}
			for _, d := range deliveries {
				c.Process(ctx, d)
			}
		}
	}
}

// Process decodes and handles one delivery, then acknowledges it unless the
// job should be retried.
func (c *Consumer) Process(ctx context.Context, d driver.Delivery) {
	start := time.Now()
	msg := d.Message
	log := logger.Logger.With("message_id", d.MessageID, "job_id", msg.JobID, "job_name", msg.JobName)

	job, err := domain.DecodeJob(msg.JobID, msg.JobName, msg.Payload)
	if err == nil {
		jobCtx := logger.WithJob(ctx, msg.JobID, msg.JobName)
		jobCtx = otel.GetTextMapPropagator().Extract(jobCtx, propagation.MapCarrier(msg.Metadata))
		if c.config.JobTimeout > 0 {
			var cancel context.CancelFunc
			jobCtx, cancel = context.WithTimeout(jobCtx, c.config.JobTimeout)
			defer cancel()
		}
		err = c.handler.HandleJob(jobCtx, job)
	}
	duration := time.Since(start)

	if !domain.IsTerminalJobError(err) {
		metrics.RecordJob(msg.JobName, "retry", duration)
		log.WarnContext(ctx, "Job failed, leaving it pending for redelivery", "error", err)
		return
	}

	if err != nil {
		metrics.RecordJob(msg.JobName, "failed", duration)
		log.InfoContext(ctx, "Job ended with terminal error", "error", err, "duration_ms", duration.Milliseconds())
	} else {
		metrics.RecordJob(msg.JobName, "success", duration)
		log.DebugContext(ctx, "Job completed", "duration_ms", duration.Milliseconds())
	}

	// Acknowledge even when shutdown already started.
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.queue.Ack(ackCtx, d.Stream, d.MessageID, msg.JobID); err != nil {
		log.ErrorContext(ctx, "Failed to acknowledge job", "error", err)
	}
}
