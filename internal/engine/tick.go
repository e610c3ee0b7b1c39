// Package engine provides the day-based simulation loop and the driver that
// runs the agora's producer and consumer passes.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DaysPerWeek is the length of a needs cycle.
const DaysPerWeek = 7

// Engine drives the simulation forward one day at a time.
type Engine struct {
	Day      int           // Next day to run (monotonic, never resets)
	MaxDays  int           // Stop after this many days; 0 runs until stopped
	Speed    float64       // Multiplier: 1.0 = one day per Interval, 0 = paused
	Interval time.Duration // Base day interval; 0 runs as fast as possible

	// Callbacks, populated during setup.
	OnDay  func(day int) // Every day
	OnWeek func(day int) // After the last day of each week

	stop     chan struct{}
	stopOnce sync.Once
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: 0,
		stop:     make(chan struct{}),
	}
}

// Run advances the simulation until ctx is cancelled, Stop is called or
// MaxDays days have run.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "day", e.Day, "speed", e.Speed, "max_days", e.MaxDays)
	defer slog.Info("simulation engine stopped", "day", e.Day)

	ran := 0
	for e.MaxDays == 0 || ran < e.MaxDays {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		default:
		}

		if e.Speed <= 0 {
			// Paused: sleep briefly and check again.
			if err := sleep(ctx, 100*time.Millisecond); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		e.step()
		ran++

		// Sleep for the remainder of the interval, adjusted for speed.
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed := time.Since(start); elapsed < target {
			if err := sleep(ctx, target-elapsed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stop halts the loop after the current day. It is safe to call more than
// once and from several goroutines.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// step runs one day and advances the counter.
func (e *Engine) step() {
	day := e.Day
	if e.OnDay != nil {
		e.OnDay(day)
	}
	if IsWeekEnd(day) && e.OnWeek != nil {
		e.OnWeek(day)
	}
	e.Day++
}

// IsWeekEnd reports whether day is the last day of its week.
func IsWeekEnd(day int) bool {
	return (day+1)%DaysPerWeek == 0
}

// SimTime returns a human-readable simulation time string for a day.
func SimTime(day int) string {
	return fmt.Sprintf("Week %d Day %d", day/DaysPerWeek+1, day%DaysPerWeek+1)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
