// Package scheduler triggers collection cycles on a fixed interval and on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/model"
)

// DefaultInterval is how often collection runs when no interval is configured.
const DefaultInterval = 24 * time.Hour

// Runner runs one collection cycle.
type Runner interface {
	RunCycle(ctx context.Context) (model.CycleReport, error)
}

// Scheduler owns the recurring collection job.
type Scheduler struct {
	runner Runner
	logger *slog.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// New creates a stopped Scheduler for runner.
func New(runner Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{runner: runner, logger: logger}
}

// Start schedules a cycle every interval and runs the first one immediately
// in the background. A cycle that panics or fails does not affect later ones.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if interval < time.Second {
		return fmt.Errorf("collection interval %s is below one second", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler already started")
	}

	logger := cronLogger{s.logger}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron = cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger), cron.Recover(logger)))
	job := s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.scheduledRun))
	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", "interval", interval.String())

	// The startup run shares the entry's wrapped job, so it can't overlap a tick.
	startup := s.cron.Entry(job).WrappedJob
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		startup.Run()
	}()
	return nil
}

// Stop cancels the scheduled cycle in progress, if any, and waits for it to
// return. It is safe to call Stop on a stopped Scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// TriggerNow runs a cycle synchronously through the same pipeline as the
// timer and returns its report.
func (s *Scheduler) TriggerNow(ctx context.Context) (model.CycleReport, error) {
	s.logger.Info("Manual collection triggered")
	return s.runner.RunCycle(ctx)
}

func (s *Scheduler) scheduledRun() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	report, err := s.runner.RunCycle(ctx)
	switch {
	case errors.Is(err, custom_errors.ErrMissingCredential):
		// Expected until a token is configured.
	case err != nil:
		s.logger.Error("Scheduled collection cycle failed", "error", err)
	default:
		s.logger.Info("Scheduled collection cycle completed",
			"succeeded", report.Succeeded, "failed", report.Failed, "duration", report.Duration.String())
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
