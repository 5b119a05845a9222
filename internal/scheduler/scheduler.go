package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper is what the scheduler periodically cleans up.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Scheduler periodically evicts idle sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
// A non-positive interval disables sweeping.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: session sweeping disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	removed := s.sweeper.Sweep()
	if removed > 0 {
		s.logger.Info("scheduler: evicted idle sessions", "removed", removed, "remaining", s.sweeper.Len())
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
