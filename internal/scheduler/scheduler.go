package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/service"
)

type Runner interface {
	RunDue(ctx context.Context) (service.DrawSummary, error)
}

// Scheduler triggers the draw engine periodically. At most one run is in
// flight per process, ticks that arrive while a run is busy are dropped.
type Scheduler struct {
	runner Runner

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration

	running atomic.Bool
	wg      sync.WaitGroup
}

func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.interval
}

// SetInterval takes effect from the next tick. Non-positive values are ignored.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d == s.interval {
		return
	}
	s.interval = d

	select {
	case <-s.reset:
	default:
	}
	s.reset <- d
	zap.L().Info("draw interval changed", zap.Duration("interval", d))
}

// Run fires once immediately and then on every tick until ctx is done. It
// waits for the in-flight run before returning.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	s.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case d := <-s.reset:
			ticker.Reset(d)
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		zap.L().Warn("previous draw run still in progress, skipping tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		started := time.Now()
		summary, err := s.runner.RunDue(ctx)
		if err != nil {
			zap.L().Error("draw run failed", zap.Error(err))
			return
		}
		if summary.Due == 0 {
			zap.L().Debug("no raffles due")
			return
		}
		zap.L().Info("draw run completed",
			zap.Int("due", summary.Due),
			zap.Int("finished", summary.Finished),
			zap.Int("failed", summary.Failed),
			zap.Int("skipped", summary.Skipped),
			zap.Duration("took", time.Since(started)),
		)
	}()
}
