// Package service refreshes tracked video stats and records daily snapshots
package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"campaigntracker/internal/adapters/events"
	"campaigntracker/internal/adapters/tikapi"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
	ptime "campaigntracker/internal/platform/time"
	campaigns "campaigntracker/internal/services/campaigns/domain"
	"campaigntracker/internal/services/refresh/domain"
	"campaigntracker/internal/services/refresh/guardrails"
	"campaigntracker/internal/services/refresh/history"

	"github.com/google/uuid"
)

// VideoFetcher reads a video's current counters
type VideoFetcher interface {
	Video(ctx context.Context, link string) (tikapi.Video, error)
}

// Config controls pacing and leases
type Config struct {
	// Gap is the pause between two videos; none after the last
	Gap time.Duration

	// EnableLeases takes the per day Postgres lease before running
	EnableLeases bool
}

// Svc runs refresh passes; at most one at a time per process
type Svc struct {
	tracking campaigns.TrackingPort
	videos   VideoFetcher
	cfg      Config

	// Lease(ctx, day, do) claims the day across processes and runs do
	Lease   guardrails.LeaseFunc
	History history.Sink
	Events  events.Publisher

	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
	running atomic.Bool
}

// New constructs the refresh service
func New(tracking campaigns.TrackingPort, videos VideoFetcher, cfg Config) *Svc {
	if tracking == nil {
		panic("refresh.Service requires a TrackingPort")
	}
	if videos == nil {
		panic("refresh.Service requires a VideoFetcher")
	}
	return &Svc{
		tracking: tracking,
		videos:   videos,
		cfg:      cfg,
		History:  history.Nop{},
		Events:   events.Nop{},
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// RunOnce refreshes every video of the campaigns covering today.
// A concurrent call gets ErrRunInProgress; a held lease gets guardrails.ErrLeaseHeld
func (s *Svc) RunOnce(ctx context.Context) (domain.RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.RunSummary{}, domain.ErrRunInProgress
	}
	defer s.running.Store(false)

	now := s.now().UTC()
	sum := domain.RunSummary{RunID: uuid.NewString(), StatsDate: ptime.Yesterday(now), StartedAt: now}
	ctx = logger.WithRun(ctx, sum.RunID)

	run := func(ctx context.Context) error {
		var err error
		sum, err = s.run(ctx, sum)
		return err
	}

	var err error
	if s.Lease != nil && s.cfg.EnableLeases {
		err = s.Lease(ctx, ptime.StartOfDay(now), run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return sum, err
	}
	s.publish(ctx, sum)
	return sum, nil
}

func (s *Svc) run(ctx context.Context, sum domain.RunSummary) (domain.RunSummary, error) {
	log := logger.C(ctx)
	today := ptime.Today(sum.StartedAt)

	cs, err := s.tracking.CoveringDay(ctx, today.Start, today.End)
	if err != nil {
		return sum, perr.WithOp(err, "active campaigns")
	}
	sum.Campaigns = len(cs)
	if len(cs) == 0 {
		log.Info().Msg("refresh: no active campaigns")
		sum.FinishedAt = s.now().UTC()
		return sum, nil
	}

	ids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	vs, err := s.tracking.VideosOf(ctx, ids)
	if err != nil {
		return sum, perr.WithOp(err, "campaign videos")
	}
	sum.Videos = len(vs)
	log.Info().Int("campaigns", sum.Campaigns).Int("videos", sum.Videos).Msg("refresh: start")

	for i, v := range vs {
		created, err := s.refreshVideo(ctx, v, sum.StatsDate)
		switch {
		case err == nil:
			sum.Succeeded++
			if created {
				sum.Snapshots++
			}
		case ctx.Err() != nil:
			// the run itself is over; a per-request deadline inside the client is not
			sum.Failed += len(vs) - i
			sum.FinishedAt = s.now().UTC()
			return sum, ctx.Err()
		default:
			sum.Failed++
			log.Warn().Err(err).Str("video_id", v.ID.String()).Str("url", v.URL).Msg("refresh: video failed")
		}

		if i < len(vs)-1 {
			if err := s.sleep(ctx, s.cfg.Gap); err != nil {
				sum.Failed += len(vs) - i - 1
				sum.FinishedAt = s.now().UTC()
				return sum, err
			}
		}
	}

	sum.FinishedAt = s.now().UTC()
	log.Info().
		Int("succeeded", sum.Succeeded).
		Int("failed", sum.Failed).
		Int("snapshots_created", sum.Snapshots).
		Dur("took", sum.Duration()).
		Msg("refresh: done")

	if err := s.History.Record(ctx, sum); err != nil {
		log.Warn().Err(err).Msg("refresh: history insert failed")
	}
	return sum, nil
}

// refreshVideo fetches one video and writes its stats and snapshot
func (s *Svc) refreshVideo(ctx context.Context, v campaigns.Video, statsDate time.Time) (bool, error) {
	if strings.TrimSpace(v.URL) == "" {
		return false, perr.Validationf("video %s has no url", v.ID)
	}
	got, err := s.videos.Video(ctx, v.URL)
	if err != nil {
		return false, err
	}
	st := campaigns.Stats(got.Stats)
	if !st.Valid() {
		return false, perr.Validationf("negative counters for video %s", v.ID)
	}
	return s.tracking.RecordStats(ctx, v, st, statsDate)
}

func (s *Svc) publish(ctx context.Context, sum domain.RunSummary) {
	if err := s.Events.Publish(ctx, events.TopicRefreshComplete, sum); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("refresh: publish summary failed")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
