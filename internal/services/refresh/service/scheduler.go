package service

import (
	"context"
	"errors"
	"time"

	"campaigntracker/internal/platform/logger"
	"campaigntracker/internal/services/refresh/domain"
	"campaigntracker/internal/services/refresh/guardrails"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule fires at 00:00 UTC every day
const DefaultSchedule = "0 0 * * *"

// Scheduler triggers RunOnce on a cron schedule in UTC
type Scheduler struct {
	runner     domain.RunnerPort
	spec       string
	runOnStart bool
}

// NewScheduler validates spec; an empty spec means DefaultSchedule
func NewScheduler(runner domain.RunnerPort, spec string, runOnStart bool) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, err
	}
	return &Scheduler{runner: runner, spec: spec, runOnStart: runOnStart}, nil
}

// Run blocks until ctx ends; a failed run is logged and the schedule keeps going
func (s *Scheduler) Run(ctx context.Context) error {
	log := logger.Named("refresh-scheduler")

	c := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.spec, func() { s.trigger(ctx, "cron") }); err != nil {
		return err
	}

	c.Start()
	log.Info().Str("schedule", s.spec).Bool("run_on_start", s.runOnStart).Msg("refresh scheduler started")
	if s.runOnStart {
		s.trigger(ctx, "startup")
	}

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("refresh scheduler stopped")
	return nil
}

func (s *Scheduler) trigger(ctx context.Context, source string) {
	if ctx.Err() != nil {
		return
	}
	log := logger.Named("refresh-scheduler")
	sum, err := s.runner.RunOnce(ctx)
	switch {
	case errors.Is(err, domain.ErrRunInProgress), errors.Is(err, guardrails.ErrLeaseHeld):
		log.Info().Err(err).Str("source", source).Msg("refresh skipped")
	case err != nil:
		log.Error().Err(err).Str("source", source).Msg("refresh run failed")
	default:
		log.Info().
			Str("source", source).
			Str("run_id", sum.RunID).
			Int("succeeded", sum.Succeeded).
			Int("failed", sum.Failed).
			Msg("refresh run finished")
	}
}
