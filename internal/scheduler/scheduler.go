package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/stockstats/internal/trigger"
)

// EventHandler receives scheduled events.
type EventHandler interface {
	Handle(ctx context.Context, ev trigger.Event) error
}

// EventHandlerFunc is a function adapter for EventHandler.
type EventHandlerFunc func(context.Context, trigger.Event) error

func (f EventHandlerFunc) Handle(ctx context.Context, ev trigger.Event) error {
	return f(ctx, ev)
}

// Config holds scheduler configuration.
type Config struct {
	Interval  time.Duration // Time between deliveries
	Command   string        // Event payload
	Immediate bool          // Deliver once on start
}

// Scheduler periodically delivers Command to a handler.
type Scheduler struct {
	cfg     Config
	handler EventHandler
	logger  *slog.Logger

	runs   atomic.Int64
	failed atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler.
func New(cfg Config, handler EventHandler, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the delivery loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"command", s.cfg.Command,
		"immediate", s.cfg.Immediate,
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight delivery to return.
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
		s.logger.Info("scheduler stopped", "runs", s.runs.Load(), "failed", s.failed.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runs returns the number of completed and failed deliveries.
func (s *Scheduler) Runs() (completed, failed int64) {
	return s.runs.Load(), s.failed.Load()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	if s.cfg.Immediate {
		s.deliver()
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.deliver()
		}
	}
}

// deliver runs synchronously on the loop goroutine, so ticks that fire
// during a delivery collapse into at most one pending tick.
func (s *Scheduler) deliver() {
	start := time.Now()

	err := s.handler.Handle(s.ctx, trigger.Event{Data: s.cfg.Command})
	s.runs.Add(1)
	if err != nil {
		s.failed.Add(1)
		s.logger.Warn("scheduled run failed", "error", err, "duration", time.Since(start))
		return
	}

	s.logger.Debug("scheduled run complete", "duration", time.Since(start))
}
