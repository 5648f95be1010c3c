// Package service contains campaign workflows
package service

import (
	"context"
	"strings"
	"time"

	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/core/normalize"
	"campaigntracker/internal/modkit/repokit"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
	"campaigntracker/internal/platform/net/http/bind"
	ptime "campaigntracker/internal/platform/time"
	"campaigntracker/internal/services/campaigns/domain"
	"campaigntracker/internal/services/campaigns/repo"

	"github.com/google/uuid"
)

// Service defines the campaigns service contract
type Service interface {
	domain.ServicePort
	domain.IntakePort
	domain.TrackingPort
}

// MusicLookup resolves audio metadata for code derivation
type MusicLookup interface {
	Music(ctx context.Context, link string) (tikapi.Music, error)
}

// Svc implements the campaigns service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	music  MusicLookup
	now    func() time.Time
}

// Option customizes Svc
type Option func(*Svc)

// WithNow injects the clock used for date rules
func WithNow(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// New constructs a campaigns service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], music MusicLookup, opts ...Option) *Svc {
	if db == nil {
		panic("campaigns.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("campaigns.Service requires a non nil Repo binder")
	}
	if music == nil {
		panic("campaigns.Service requires a non nil MusicLookup")
	}
	s := &Svc{Repo: binder.Bind(db), binder: binder, db: db, music: music, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create derives the campaign code from the first audio and stores the campaign
func (s *Svc) Create(ctx context.Context, in domain.CreateCampaignInput) (domain.Campaign, error) {
	start, err := parseBound(in.StartDate, false)
	if err != nil {
		return domain.Campaign{}, perr.WithField(err, "start_date")
	}
	end, err := parseBound(in.EndDate, true)
	if err != nil {
		return domain.Campaign{}, perr.WithField(err, "end_date")
	}
	if !end.After(start) {
		return domain.Campaign{}, perr.WithField(perr.InvalidArgf("end date must be greater than start date"), "end_date")
	}

	m, err := s.music.Music(ctx, in.Audios[0])
	if err != nil {
		return domain.Campaign{}, perr.WithField(err, "audios")
	}
	base := normalize.CampaignCode(m.Title, m.AuthorName)

	c := domain.Campaign{
		Name:        strings.TrimSpace(in.Name),
		Objective:   in.Objective,
		Description: in.Description,
		Audios:      in.Audios,
		Videos:      in.Videos,
		Budget:      in.Budget,
		StartDate:   start,
		EndDate:     end,
	}
	if in.Audience != nil {
		c.Audience = *in.Audience
	}

	var out domain.Campaign
	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		taken, err := r.CountCodePrefix(ctx, base)
		if err != nil {
			return err
		}
		c.Code = normalize.WithSuffix(base, taken)
		out, err = r.InsertCampaign(ctx, c)
		return err
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	logger.C(ctx).Info().Str("campaign_id", out.ID.String()).Str("campaign_code", out.Code).Msg("campaign created")
	return out, nil
}

// Extend moves the window of a campaign and replaces its budget total.
// Once started only the end date may move and it must not be in the past;
// before that both dates must be today or later with start before end
func (s *Svc) Extend(ctx context.Context, in domain.ExtendCampaignInput) (domain.Campaign, error) {
	c, err := s.Repo.CampaignByID(ctx, in.ID)
	if err != nil {
		return domain.Campaign{}, err
	}
	start, err := parseBound(in.StartDate, false)
	if err != nil {
		return domain.Campaign{}, perr.WithField(err, "start_date")
	}
	end, err := parseBound(in.EndDate, true)
	if err != nil {
		return domain.Campaign{}, perr.WithField(err, "end_date")
	}

	today := ptime.StartOfDay(s.now())
	if !today.Before(c.StartDate) {
		if end.Before(today) {
			return domain.Campaign{}, perr.WithField(perr.InvalidArgf("end date must be current or a future date"), "end_date")
		}
		start = c.StartDate
	} else {
		if start.Before(today) {
			return domain.Campaign{}, perr.WithField(perr.InvalidArgf("start date must be current or a future date"), "start_date")
		}
		if end.Before(today) {
			return domain.Campaign{}, perr.WithField(perr.InvalidArgf("end date must be current or a future date"), "end_date")
		}
		if !start.Before(end) {
			return domain.Campaign{}, perr.WithField(perr.InvalidArgf("end date must be greater than start date"), "end_date")
		}
	}

	out, err := s.Repo.UpdateWindow(ctx, c.ID, start, end, in.Budget)
	if err != nil {
		return domain.Campaign{}, err
	}
	logger.C(ctx).Info().
		Str("campaign_id", out.ID.String()).
		Time("start_date", out.StartDate).
		Time("end_date", out.EndDate).
		Msg("campaign extended")
	return out, nil
}

// List returns every live campaign with its videos and snapshots
func (s *Svc) List(ctx context.Context) ([]domain.CampaignDetails, error) {
	cs, err := s.Repo.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, cs)
}

// Details returns one campaign by id or code; id wins when both are set
func (s *Svc) Details(ctx context.Context, q domain.DetailsQuery) (domain.CampaignDetails, error) {
	var (
		c   domain.Campaign
		err error
	)
	switch {
	case q.ID != nil:
		c, err = s.Repo.CampaignByID(ctx, *q.ID)
	case strings.TrimSpace(q.Code) != "":
		c, err = s.Repo.CampaignByCode(ctx, strings.TrimSpace(q.Code))
	default:
		return domain.CampaignDetails{}, perr.Validationf("at least one of id or campaign_code is required")
	}
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.CampaignDetails{}, perr.NotFoundf("no campaign found")
	}
	if err != nil {
		return domain.CampaignDetails{}, err
	}
	out, err := s.details(ctx, []domain.Campaign{c})
	if err != nil {
		return domain.CampaignDetails{}, err
	}
	return out[0], nil
}

// details joins videos and snapshots onto campaigns with two batch reads
func (s *Svc) details(ctx context.Context, cs []domain.Campaign) ([]domain.CampaignDetails, error) {
	out := make([]domain.CampaignDetails, len(cs))
	if len(cs) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	videos, err := s.Repo.VideosByCampaigns(ctx, ids)
	if err != nil {
		return nil, err
	}
	vids := make([]uuid.UUID, len(videos))
	for i, v := range videos {
		vids[i] = v.ID
	}
	snaps, err := s.Repo.SnapshotsByVideos(ctx, vids)
	if err != nil {
		return nil, err
	}

	byVideo := make(map[uuid.UUID][]domain.Snapshot, len(videos))
	for _, sn := range snaps {
		byVideo[sn.VideoID] = append(byVideo[sn.VideoID], sn)
	}
	byCampaign := make(map[uuid.UUID][]domain.VideoDetails, len(cs))
	for _, v := range videos {
		snaps := byVideo[v.ID]
		if snaps == nil {
			snaps = []domain.Snapshot{}
		}
		byCampaign[v.CampaignID] = append(byCampaign[v.CampaignID], domain.VideoDetails{Video: v, Snapshots: snaps})
	}
	for i, c := range cs {
		vs := byCampaign[c.ID]
		if vs == nil {
			vs = []domain.VideoDetails{}
		}
		out[i] = domain.CampaignDetails{Campaign: c, CampaignVideos: vs}
	}
	return out, nil
}

// ActiveByCode finds the live campaign with code whose window contains at
func (s *Svc) ActiveByCode(ctx context.Context, code string, at time.Time) (domain.Campaign, error) {
	return s.Repo.ActiveByCode(ctx, strings.TrimSpace(code), at.UTC())
}

// AttachVideo persists a new tracked video with the stats seen at attachment
func (s *Svc) AttachVideo(ctx context.Context, in domain.NewVideo) (domain.Video, error) {
	return s.Repo.InsertVideo(ctx, in)
}

// CoveringDay lists campaigns whose window covers the whole day
func (s *Svc) CoveringDay(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Campaign, error) {
	return s.Repo.CoveringDay(ctx, dayStart, dayEnd)
}

// VideosOf lists the live videos of campaignIDs
func (s *Svc) VideosOf(ctx context.Context, campaignIDs []uuid.UUID) ([]domain.Video, error) {
	return s.Repo.VideosByCampaigns(ctx, campaignIDs)
}

// RecordStats overwrites v's stats and finds or creates its snapshot for statsDate in one tx
func (s *Svc) RecordStats(ctx context.Context, v domain.Video, st domain.Stats, statsDate time.Time) (bool, error) {
	if !st.Valid() {
		return false, perr.Validationf("negative counters for video %s", v.ID)
	}
	var created bool
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.UpdateVideoStats(ctx, v.ID, st); err != nil {
			return err
		}
		var err error
		created, err = r.UpsertSnapshot(ctx, domain.Snapshot{
			CampaignID: v.CampaignID,
			VideoID:    v.ID,
			CreatorID:  v.CreatorID,
			URL:        v.URL,
			Stats:      st,
			StatsDate:  ptime.StartOfDay(statsDate),
		})
		return err
	})
	return created, err
}

// parseBound parses an ISO-8601 instant; a bare date is the start of that UTC
// day, or its last millisecond when end is set
func parseBound(s string, end bool) (time.Time, error) {
	t, err := bind.ParseDate(s)
	if err != nil {
		return time.Time{}, perr.Validationf("%q is not an ISO-8601 date", s)
	}
	if len(strings.TrimSpace(s)) == len(time.DateOnly) && end {
		return ptime.EndOfDay(t), nil
	}
	return t, nil
}
