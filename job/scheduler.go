// Package job runs the periodic background jobs of the service.
package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"feed-refresher/utils/logger"
)

// Job is a function run every Interval. A zero Timeout leaves a run bounded
// only by the scheduler's context.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// JobScheduler runs each registered job on its own ticker until the context
// passed to Start ends.
type JobScheduler struct {
	mu      sync.Mutex
	jobs    []Job
	started bool
	wg      sync.WaitGroup
}

func NewJobScheduler() *JobScheduler {
	return &JobScheduler{}
}

// Add registers j. Jobs added after Start are not run.
func (s *JobScheduler) Add(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
}

// Start runs every job once right away and then on its interval. Calling it
// again is a no-op.
func (s *JobScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, j := range s.jobs {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, j)
		}()
	}
}

// Shutdown waits for the job loops to exit. Cancel Start's context first.
func (s *JobScheduler) Shutdown() {
	s.wg.Wait()
}

func (s *JobScheduler) loop(ctx context.Context, j Job) {
	s.run(ctx, j)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Logger.InfoContext(ctx, "Scheduled job stopped", "job", j.Name)
			return
		case <-ticker.C:
			s.run(ctx, j)
		}
	}
}

func (s *JobScheduler) run(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}

	runCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := invoke(runCtx, j); err != nil {
		logger.Logger.ErrorContext(ctx, "Scheduled job failed", "job", j.Name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	logger.Logger.DebugContext(ctx, "Scheduled job finished", "job", j.Name, "duration_ms", time.Since(start).Milliseconds())
}

// invoke turns a panic in j into an error so one bad run does not end the loop.
func invoke(ctx context.Context, j Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.Name, r)
		}
	}()
	return j.Fn(ctx)
}
