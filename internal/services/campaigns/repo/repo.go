// Package repo provides postgres access for campaigns, videos and snapshots
package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"time"

	"campaigntracker/internal/modkit/repokit"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/store"
	"campaigntracker/internal/services/campaigns/domain"

	"github.com/google/uuid"
)

// Schema is the DDL for the campaign tables; every statement is idempotent
//
//go:embed schema.sql
var Schema string

// Repo is the persistence surface for campaigns
type Repo interface {
	InsertCampaign(ctx context.Context, c domain.Campaign) (domain.Campaign, error)
	CountCodePrefix(ctx context.Context, base string) (int, error)
	CampaignByID(ctx context.Context, id uuid.UUID) (domain.Campaign, error)
	CampaignByCode(ctx context.Context, code string) (domain.Campaign, error)
	ActiveByCode(ctx context.Context, code string, at time.Time) (domain.Campaign, error)
	UpdateWindow(ctx context.Context, id uuid.UUID, start, end time.Time, budgetTotal float64) (domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	CoveringDay(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Campaign, error)

	InsertVideo(ctx context.Context, v domain.NewVideo) (domain.Video, error)
	VideosByCampaigns(ctx context.Context, ids []uuid.UUID) ([]domain.Video, error)
	UpdateVideoStats(ctx context.Context, id uuid.UUID, s domain.Stats) error

	UpsertSnapshot(ctx context.Context, s domain.Snapshot) (created bool, err error)
	SnapshotsByVideos(ctx context.Context, ids []uuid.UUID) ([]domain.Snapshot, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const campaignCols = `
id, name, objective, description, audios, videos, campaign_code, audience,
budget_total, budget_starting_fund, budget_ending_fund,
start_date, end_date, created_at, updated_at, deleted_at`

const videoCols = `
id, campaign_id, url, creator_id, creator_social_name, description,
views, likes, shares, bookmarks, comments, created_at, updated_at, deleted_at`

const snapshotCols = `
id, campaign_id, video_id, creator_id, url,
views, likes, shares, bookmarks, comments, stats_date, created_at, updated_at`

func scanCampaign(r store.Row) (domain.Campaign, error) {
	var c domain.Campaign
	var audience []byte
	err := r.Scan(
		&c.ID, &c.Name, &c.Objective, &c.Description, &c.Audios, &c.Videos, &c.Code, &audience,
		&c.Budget.Total, &c.Budget.StartingFund, &c.Budget.EndingFund,
		&c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}
	if len(audience) > 0 {
		if err := json.Unmarshal(audience, &c.Audience); err != nil {
			return domain.Campaign{}, perr.Wrapf(err, perr.ErrorCodeJSON, "campaign %s audience decode failed", c.ID)
		}
	}
	return c, nil
}

func scanVideo(r store.Row) (domain.Video, error) {
	var v domain.Video
	err := r.Scan(
		&v.ID, &v.CampaignID, &v.URL, &v.CreatorID, &v.CreatorSocialName, &v.Description,
		&v.Stats.Views, &v.Stats.Likes, &v.Stats.Shares, &v.Stats.Bookmarks, &v.Stats.Comments,
		&v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	)
	return v, err
}

func scanSnapshot(r store.Row) (domain.Snapshot, error) {
	var s domain.Snapshot
	err := r.Scan(
		&s.ID, &s.CampaignID, &s.VideoID, &s.CreatorID, &s.URL,
		&s.Stats.Views, &s.Stats.Likes, &s.Stats.Shares, &s.Stats.Bookmarks, &s.Stats.Comments,
		&s.StatsDate, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *queries) InsertCampaign(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	audience, err := json.Marshal(c.Audience)
	if err != nil {
		return domain.Campaign{}, perr.Wrapf(err, perr.ErrorCodeJSON, "audience encode failed")
	}
	sql := `
insert into campaigns (
	name, objective, description, audios, videos, campaign_code, audience,
	budget_total, budget_starting_fund, budget_ending_fund, start_date, end_date
) values ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11, $12)
returning ` + campaignCols
	out, err := scanCampaign(r.q.QueryRow(ctx, sql,
		c.Name, c.Objective, c.Description, nonNil(c.Audios), nonNil(c.Videos), c.Code, string(audience),
		c.Budget.Total, c.Budget.StartingFund, c.Budget.EndingFund, c.StartDate, c.EndDate,
	))
	return out, perr.FromPostgresf(err, "insert campaign %s", c.Code)
}

// CountCodePrefix counts codes starting with base, case-insensitively
func (r *queries) CountCodePrefix(ctx context.Context, base string) (int, error) {
	const sql = `select count(*) from campaigns where campaign_code ilike $1 || '%' escape '\'`
	n, err := store.Scalar[int64](ctx, r.q, sql, likeEscape(base))
	return int(n), perr.FromPostgresf(err, "count codes %s", base)
}

func (r *queries) CampaignByID(ctx context.Context, id uuid.UUID) (domain.Campaign, error) {
	sql := `select ` + campaignCols + ` from campaigns where id = $1 and deleted_at is null`
	c, err := scanCampaign(r.q.QueryRow(ctx, sql, id))
	return c, perr.FromPostgresf(err, "campaign %s", id)
}

func (r *queries) CampaignByCode(ctx context.Context, code string) (domain.Campaign, error) {
	sql := `select ` + campaignCols + ` from campaigns where upper(campaign_code) = upper($1) and deleted_at is null`
	c, err := scanCampaign(r.q.QueryRow(ctx, sql, code))
	return c, perr.FromPostgresf(err, "campaign code %s", code)
}

func (r *queries) ActiveByCode(ctx context.Context, code string, at time.Time) (domain.Campaign, error) {
	sql := `select ` + campaignCols + `
from campaigns
where upper(campaign_code) = upper($1)
and start_date <= $2 and end_date >= $2
and deleted_at is null
limit 1`
	c, err := scanCampaign(r.q.QueryRow(ctx, sql, code, at))
	return c, perr.FromPostgresf(err, "active campaign %s", code)
}

func (r *queries) UpdateWindow(ctx context.Context, id uuid.UUID, start, end time.Time, budgetTotal float64) (domain.Campaign, error) {
	sql := `
update campaigns
set start_date = $2, end_date = $3, budget_total = $4, updated_at = now()
where id = $1 and deleted_at is null
returning ` + campaignCols
	c, err := scanCampaign(r.q.QueryRow(ctx, sql, id, start, end, budgetTotal))
	return c, perr.FromPostgresf(err, "extend campaign %s", id)
}

func (r *queries) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	sql := `select ` + campaignCols + ` from campaigns where deleted_at is null order by created_at desc`
	out, err := store.Many(ctx, r.q, scanCampaign, sql)
	return out, perr.FromPostgres(err, "list campaigns")
}

func (r *queries) CoveringDay(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Campaign, error) {
	sql := `select ` + campaignCols + `
from campaigns
where start_date <= $1 and end_date >= $2
and deleted_at is null
order by start_date asc`
	out, err := store.Many(ctx, r.q, scanCampaign, sql, dayStart, dayEnd)
	return out, perr.FromPostgres(err, "campaigns covering day")
}

func (r *queries) InsertVideo(ctx context.Context, v domain.NewVideo) (domain.Video, error) {
	sql := `
insert into campaign_videos (
	campaign_id, url, creator_id, creator_social_name, description,
	views, likes, shares, bookmarks, comments
) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
returning ` + videoCols
	out, err := scanVideo(r.q.QueryRow(ctx, sql,
		v.CampaignID, v.URL, v.CreatorID, v.CreatorSocialName, v.Description,
		v.Stats.Views, v.Stats.Likes, v.Stats.Shares, v.Stats.Bookmarks, v.Stats.Comments,
	))
	return out, perr.FromPostgresf(err, "insert video %s", v.URL)
}

func (r *queries) VideosByCampaigns(ctx context.Context, ids []uuid.UUID) ([]domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sql := `select ` + videoCols + `
from campaign_videos
where campaign_id = any($1::uuid[])
and deleted_at is null
order by created_at asc, id asc`
	out, err := store.Many(ctx, r.q, scanVideo, sql, uuidStrings(ids))
	return out, perr.FromPostgres(err, "videos by campaigns")
}

func (r *queries) UpdateVideoStats(ctx context.Context, id uuid.UUID, s domain.Stats) error {
	const sql = `
update campaign_videos
set views = $2, likes = $3, shares = $4, bookmarks = $5, comments = $6, updated_at = now()
where id = $1 and deleted_at is null`
	err := store.ExecOne(ctx, r.q, sql, id, s.Views, s.Likes, s.Shares, s.Bookmarks, s.Comments)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("video %s not found", id)
	}
	return perr.FromPostgresf(err, "update video stats %s", id)
}

// UpsertSnapshot finds the (video, day) snapshot and overwrites its stats, or creates it
func (r *queries) UpsertSnapshot(ctx context.Context, s domain.Snapshot) (bool, error) {
	const sql = `
insert into campaign_video_stats (
	campaign_id, video_id, creator_id, url, views, likes, shares, bookmarks, comments, stats_date
) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
on conflict (video_id, stats_date) do update set
	campaign_id = excluded.campaign_id,
	creator_id = excluded.creator_id,
	url = excluded.url,
	views = excluded.views,
	likes = excluded.likes,
	shares = excluded.shares,
	bookmarks = excluded.bookmarks,
	comments = excluded.comments,
	updated_at = now()
returning (xmax = 0) as created`
	var created bool
	err := r.q.QueryRow(ctx, sql,
		s.CampaignID, s.VideoID, s.CreatorID, s.URL,
		s.Stats.Views, s.Stats.Likes, s.Stats.Shares, s.Stats.Bookmarks, s.Stats.Comments,
		s.StatsDate,
	).Scan(&created)
	return created, perr.FromPostgresf(err, "upsert snapshot %s", s.VideoID)
}

func (r *queries) SnapshotsByVideos(ctx context.Context, ids []uuid.UUID) ([]domain.Snapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sql := `select ` + snapshotCols + `
from campaign_video_stats
where video_id = any($1::uuid[])
order by stats_date asc`
	out, err := store.Many(ctx, r.q, scanSnapshot, sql, uuidStrings(ids))
	return out, perr.FromPostgres(err, "snapshots by videos")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeEscape(s string) string { return likeEscaper.Replace(s) }
