// Package scheduler runs periodic maintenance jobs.  The only job
// today is the event expiry sweep, which deactivates hosted events
// whose end date has passed so they stop appearing in listings and
// stop admitting bookings.
package scheduler

import (
	"context"
	"log"
	"time"
)

// EventDeactivator is the slice of the event repository the sweep
// needs.
type EventDeactivator interface {
	DeactivateEnded(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler drives the expiry sweep on a fixed interval.
type Scheduler struct {
	events   EventDeactivator
	interval time.Duration
	now      func() time.Time
}

// New returns a Scheduler sweeping at the given interval.  An interval
// of zero defaults to one hour.
func New(events EventDeactivator, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		events:   events,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps once immediately, then on every tick until ctx is
// cancelled.  The sweep statement is idempotent, so a missed or doubled
// tick changes nothing.
func (s *Scheduler) Run(ctx context.Context) {
	s.sweep(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	n, err := s.events.DeactivateEnded(ctx, s.now())
	if err != nil {
		log.Printf("scheduler: event expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("scheduler: deactivated %d ended event(s)", n)
	}
}
