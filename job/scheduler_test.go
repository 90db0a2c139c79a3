package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"feed-refresher/domain"

	"github.com/stretchr/testify/assert"
)

func TestJobScheduler_RunsJobOnStart(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler()
	scheduler.Add(Job{
		Name:     "test-job",
		Interval: time.Hour,
		Timeout:  time.Second,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	assert.Eventually(t, func() bool { return count.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()
	scheduler.Shutdown()
}

func TestJobScheduler_StopsOnContextCancel(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler()
	scheduler.Add(Job{
		Name:     "stop-test",
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	scheduler.Shutdown()

	countAfterShutdown := count.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, countAfterShutdown, count.Load(), "job continued running after context cancel and shutdown")
}

func TestJobScheduler_JobTimeoutRespected(t *testing.T) {
	var timedOut atomic.Bool

	scheduler := NewJobScheduler()
	scheduler.Add(Job{
		Name:     "timeout-test",
		Interval: time.Hour,
		Timeout:  20 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			<-ctx.Done()
			timedOut.Store(true)
			return ctx.Err()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	assert.Eventually(t, timedOut.Load, time.Second, 5*time.Millisecond)
	cancel()
	scheduler.Shutdown()
}

func TestJobScheduler_RecoversFromPanic(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler()
	scheduler.Add(Job{
		Name:     "panic-test",
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			panic("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	assert.Eventually(t, func() bool { return count.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	scheduler.Shutdown()
}

func TestJobScheduler_ZeroTimeoutUsesParentContext(t *testing.T) {
	var hadDeadline atomic.Bool
	var ran atomic.Bool

	scheduler := NewJobScheduler()
	scheduler.Add(Job{
		Name:     "no-timeout",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			hadDeadline.Store(ok)
			ran.Store(true)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	assert.Eventually(t, ran.Load, time.Second, 5*time.Millisecond)
	assert.False(t, hadDeadline.Load())
	cancel()
	scheduler.Shutdown()
}

func TestJobScheduler_StartTwiceRunsOnce(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler()
	scheduler.Add(Job{
		Name:     "start-twice",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)
	scheduler.Start(ctx)

	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
	cancel()
	scheduler.Shutdown()
}

type fakeEnqueuer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeEnqueuer) EnqueueAll(context.Context) (*domain.RefreshContext, bool, error) {
	f.calls.Add(1)
	return nil, f.err == nil, f.err
}

func TestRefreshAllFeedsJob(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errors.New("redis down")}
	j := RefreshAllFeedsJob(enqueuer, 15*time.Minute, time.Minute)

	assert.Equal(t, RefreshAllFeedsJobName, j.Name)
	assert.Equal(t, 15*time.Minute, j.Interval)
	assert.EqualError(t, j.Fn(context.Background()), "redis down")
	assert.Equal(t, int32(1), enqueuer.calls.Load())
}
