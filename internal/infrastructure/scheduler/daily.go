package scheduler

import (
	"context"
	"log/slog"
	"time"

	"ShortsPublisher/internal/ports"
)

// Slot is a named daily firing time in the scheduler's timezone.
type Slot struct {
	Name   string
	Hour   int
	Minute int
}

// DailyScheduler fires each configured slot once per day. A single
// goroutine sleeps until the soonest upcoming slot and invokes the job.
type DailyScheduler struct {
	slots    []Slot
	location *time.Location
	logger   *slog.Logger
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler over the given slots and timezone.
func NewDailyScheduler(slots []Slot, location *time.Location, logger *slog.Logger) *DailyScheduler {
	return &DailyScheduler{
		slots:    slots,
		location: location,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start launches the scheduling loop.
func (d *DailyScheduler) Start(ctx context.Context, job func(slot string, fired time.Time)) error {
	if job == nil || len(d.slots) == 0 {
		return nil
	}
	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go d.loop(ctx, job)
	return nil
}

func (d *DailyScheduler) loop(ctx context.Context, job func(slot string, fired time.Time)) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		slot, at := next(d.slots, time.Now().In(d.location))
		d.logger.Debug("next slot", "slot", slot.Name, "at", at)
		timer.Reset(time.Until(at))

		select {
		case fired := <-timer.C:
			job(slot.Name, fired.In(d.location))
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		}
	}
}

// Stop halts the scheduling goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

// next finds the slot with the soonest occurrence strictly after now.
func next(slots []Slot, now time.Time) (Slot, time.Time) {
	var (
		best   Slot
		bestAt time.Time
	)
	for _, s := range slots {
		at := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		if bestAt.IsZero() || at.Before(bestAt) {
			best = s
			bestAt = at
		}
	}
	return best, bestAt
}
