package usecase

import (
	"context"
	"log/slog"
	"time"

	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/ports"
)

// IngestSlotName marks the daily download-and-process run in the schedule.
const IngestSlotName = "ingest"

// Scheduler wires the slot driver with the ingest pipeline and the upload
// coordinator. Upload slots are named by their HH:MM label.
type Scheduler struct {
	driver      ports.Scheduler
	pipeline    *Pipeline
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring jobs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, coordinator *Coordinator, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, coordinator: coordinator, logger: logger}
}

// Start registers the slot dispatch with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	job := func(slot string, fired time.Time) {
		if slot == IngestSlotName {
			if s.pipeline == nil {
				return
			}
			if err := s.pipeline.ProcessDay(ctx, fired); err != nil {
				s.error("ingest run failed", "error", err)
			}
			return
		}

		hour, minute, err := config.ParseSlot(slot)
		if err != nil {
			s.error("unparseable slot fired", "slot", slot, "error", err)
			return
		}
		if s.coordinator == nil {
			return
		}
		s.coordinator.RunSlot(ctx, hour, minute)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

func (s *Scheduler) error(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
