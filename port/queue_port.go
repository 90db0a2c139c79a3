package port

import (
	"context"

	"feed-refresher/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=queue_port.go -destination=../mocks/mock_queue_port.go -package=mocks

// JobQueuePort enqueues jobs for the worker pool.
type JobQueuePort interface {
	// Enqueue adds job to the queue. It returns false without error when a job
	// with the same dedup id is still outstanding.
	Enqueue(ctx context.Context, job *domain.Job, opts domain.EnqueueOptions) (bool, error)
}
