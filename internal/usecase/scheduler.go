package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsDesk/internal/ports"
)

// Scheduler wires the cron driver with the curation pipeline.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the recurring pipeline run with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		result, err := s.pipeline.Run(ctx, trigger)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled run failed", "error", err)
			}
			return
		}
		if s.logger != nil {
			s.logger.Info("scheduled run done",
				"selected", len(result.Articles),
				"rejected", len(result.Report.Rejections))
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s == nil || s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
