package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is a task run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero lets a run last until Stop.
	Timeout time.Duration
	// Delayed skips the run at Start; the first run happens one Interval later.
	Delayed bool
	Fn      func(ctx context.Context) error
}

// Scheduler runs each job in its own goroutine. Runs of the same job never
// overlap; a run that panics is logged and the job keeps its schedule.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []Job
	started bool

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job. Jobs added after Start are started immediately.
func (s *Scheduler) AddJob(job Job) {
	if job.Interval <= 0 {
		panic(fmt.Sprintf("cron: job %q needs a positive interval", job.Name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name, "interval", job.Interval, "timeout", job.Timeout)
	if s.started {
		s.launch(job)
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		s.launch(job)
	}
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		slog.Info("Cron scheduler stopped")
	})
}

// RunOnce runs every registered job once, in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.execute(ctx, job)
	}
}

func (s *Scheduler) launch(job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(job.Interval)
		defer ticker.Stop()

		if !job.Delayed {
			s.execute(s.ctx, job)
		}
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.execute(s.ctx, job)
			}
		}
	}()
}

func (s *Scheduler) execute(parent context.Context, job Job) {
	ctx := parent
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Cron job panicked", "name", job.Name, "panic", r, "duration", time.Since(start))
		}
	}()

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
}
