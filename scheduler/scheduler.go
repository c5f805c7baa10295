package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"forumkit/engine"
)

// StreakJanitor periodically resets the current streak of users whose last
// activity has gone stale. The orchestrating process owns the timer: it
// constructs the janitor, starts it, and shuts it down with the rest of
// the application; there is no ambient global scheduler.
type StreakJanitor struct {
	engine *engine.Engine
	clock  engine.Clock
	log    *slog.Logger
	every  time.Duration
	sched  gocron.Scheduler
}

// Option configures the janitor.
type Option func(*StreakJanitor)

// WithInterval overrides the sweep interval (default 24h).
func WithInterval(d time.Duration) Option {
	return func(j *StreakJanitor) {
		if d > 0 {
			j.every = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(j *StreakJanitor) {
		if log != nil {
			j.log = log
		}
	}
}

func NewStreakJanitor(eng *engine.Engine, clock engine.Clock, opts ...Option) *StreakJanitor {
	if clock == nil {
		clock = engine.SystemClock{}
	}
	j := &StreakJanitor{
		engine: eng,
		clock:  clock,
		log:    slog.Default(),
		every:  24 * time.Hour,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Start schedules the daily sweep.
func (j *StreakJanitor) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(j.every),
		gocron.NewTask(func() {
			if _, err := j.RunOnce(context.Background()); err != nil {
				j.log.Error("streak sweep failed", "error", err)
			}
		}),
	)
	if err != nil {
		return err
	}
	sched.Start()
	j.sched = sched
	return nil
}

// Shutdown stops the scheduler and waits for a running sweep to finish.
func (j *StreakJanitor) Shutdown() error {
	if j.sched == nil {
		return nil
	}
	return j.sched.Shutdown()
}

// RunOnce performs a single sweep against today's date. Exposed so tests
// and operational tooling can trigger it directly.
func (j *StreakJanitor) RunOnce(ctx context.Context) (int, error) {
	today := j.clock.Today()
	reset, err := j.engine.ResetStaleStreaks(ctx, today)
	if err != nil {
		return 0, err
	}
	if reset > 0 {
		j.log.Info("reset stale streaks", "count", reset, "day", today.Format("2006-01-02"))
	}
	return reset, nil
}
