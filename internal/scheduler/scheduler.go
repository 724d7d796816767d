// Package scheduler runs the periodic ingestion and refresh jobs
// inside one process.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type Job func(ctx context.Context)

type job struct {
	name     string
	interval time.Duration
	run      Job
	running  atomic.Bool
}

// Scheduler fires each registered job on its own fixed cadence. Jobs
// are non-reentrant: a tick that arrives while the previous run is
// still in flight is skipped, not queued.
type Scheduler struct {
	jobs []*job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{}
}

// Add registers a job. Call before Start.
func (s *Scheduler) Add(name string, interval time.Duration, fn Job) {
	s.jobs = append(s.jobs, &job{name: name, interval: interval, run: fn})
}

// Start launches one loop per job. Each job runs immediately, then on
// every interval tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(j)
		slog.Info("scheduled job", "job", j.name, "interval", j.interval)
	}
}

// Stop cancels all job loops and waits for in-flight runs to finish or
// the context to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.fire(j)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.fire(j)
		}
	}
}

func (s *Scheduler) fire(j *job) {
	if !j.running.CompareAndSwap(false, true) {
		slog.Warn("previous run still in flight, skipping", "job", j.name)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer j.running.Store(false)

		start := time.Now()
		j.run(s.ctx)
		slog.Info("job run complete", "job", j.name, "duration", time.Since(start))
	}()
}
