package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/service"
)

type countingRunner struct {
	calls   atomic.Int32
	active  atomic.Int32
	overlap atomic.Bool
	block   chan struct{}
	err     error
}

func (r *countingRunner) RunDue(ctx context.Context) (service.DrawSummary, error) {
	if r.active.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.active.Add(-1)
	r.calls.Add(1)

	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}

	return service.DrawSummary{Due: 1, Finished: 1}, r.err
}

func runInBackground(t *testing.T, s *Scheduler) (context.CancelFunc, <-chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	return cancel, done
}

func waitStopped(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	runner := &countingRunner{}
	cancel, done := runInBackground(t, New(runner, 5*time.Millisecond))

	require.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	waitStopped(t, done)
}

func TestScheduler_FirstRunDoesNotWaitForInterval(t *testing.T) {
	runner := &countingRunner{}
	cancel, done := runInBackground(t, New(runner, time.Hour))

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	waitStopped(t, done)
}

func TestScheduler_SkipsOverlappingTicks(t *testing.T) {
	runner := &countingRunner{block: make(chan struct{})}
	cancel, done := runInBackground(t, New(runner, time.Millisecond))

	// Plenty of ticks pass while the first run is blocked.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.block)
	require.Eventually(t, func() bool { return runner.calls.Load() > 1 }, time.Second, time.Millisecond)
	cancel()
	waitStopped(t, done)

	assert.False(t, runner.overlap.Load())
}

func TestScheduler_KeepsRunningAfterErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("db down")}
	cancel, done := runInBackground(t, New(runner, 2*time.Millisecond))

	require.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	waitStopped(t, done)
}

func TestScheduler_SetInterval(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, time.Hour)
	cancel, done := runInBackground(t, s)

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, time.Millisecond)
	s.SetInterval(2 * time.Millisecond)
	assert.Equal(t, 2*time.Millisecond, s.Interval())

	require.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	waitStopped(t, done)
}

func TestScheduler_SetIntervalIgnoresNonPositive(t *testing.T) {
	s := New(&countingRunner{}, time.Minute)

	s.SetInterval(0)
	s.SetInterval(-time.Second)

	assert.Equal(t, time.Minute, s.Interval())
}

func TestScheduler_WaitsForInFlightRun(t *testing.T) {
	runner := &countingRunner{block: make(chan struct{})}
	cancel, done := runInBackground(t, New(runner, time.Hour))

	require.Eventually(t, func() bool { return runner.active.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	waitStopped(t, done)

	assert.Equal(t, int32(0), runner.active.Load())
}
