package service

import (
	"context"
	"fmt"
	"time"

	"campaigntracker/internal/adapters/events"
	"campaigntracker/internal/adapters/moderation"
	"campaigntracker/internal/adapters/tikapi"
	perr "campaigntracker/internal/platform/errors"
	"campaigntracker/internal/platform/logger"
	campaigns "campaigntracker/internal/services/campaigns/domain"
	"campaigntracker/internal/services/intake/domain"
)

// Moderator validates announcement text
type Moderator interface {
	Check(ctx context.Context, message string) (moderation.Verdict, error)
}

// VideoFetcher reads a video's author, description and counters
type VideoFetcher interface {
	Video(ctx context.Context, link string) (tikapi.Video, error)
}

// ChatPoster sends a plain text reply to a channel
type ChatPoster interface {
	Post(ctx context.Context, channelID, text string) error
}

// ErrorPrefix starts every reply the bot posts
const ErrorPrefix = "❌ Error: "

// Workflow moderates one message and attaches its video to the matching campaign
type Workflow struct {
	mod       Moderator
	campaigns campaigns.IntakePort
	videos    VideoFetcher
	chat      ChatPoster
	events    events.Publisher

	notifyNoCampaign bool
	now              func() time.Time
}

// WorkflowOption customizes a Workflow
type WorkflowOption func(*Workflow)

// WithEvents publishes video.attached after each stored video
func WithEvents(p events.Publisher) WorkflowOption {
	return func(w *Workflow) {
		if p != nil {
			w.events = p
		}
	}
}

// WithNotifyNoCampaign replies when a valid code has no active campaign
func WithNotifyNoCampaign(on bool) WorkflowOption {
	return func(w *Workflow) { w.notifyNoCampaign = on }
}

// WithClock injects the clock used for the active window check
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow wires the workflow collaborators; all four are required
func NewWorkflow(mod Moderator, cs campaigns.IntakePort, videos VideoFetcher, chat ChatPoster, opts ...WorkflowOption) *Workflow {
	if mod == nil || cs == nil || videos == nil || chat == nil {
		panic("intake.Workflow requires moderator, campaigns, video fetcher and chat poster")
	}
	w := &Workflow{
		mod:       mod,
		campaigns: cs,
		videos:    videos,
		chat:      chat,
		events:    events.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// VideoAttached is the payload of the video.attached event
type VideoAttached struct {
	CampaignID   string          `json:"campaign_id"`
	CampaignCode string          `json:"campaign_code"`
	VideoID      string          `json:"video_id"`
	URL          string          `json:"url"`
	CreatorID    string          `json:"creator_id"`
	MessageID    string          `json:"message_id"`
	Stats        campaigns.Stats `json:"stats"`
}

// Handle runs one attempt; business outcomes return a nil error and only
// failures worth retrying come back as errors
func (w *Workflow) Handle(ctx context.Context, msg domain.ChatMessage) (domain.Outcome, error) {
	log := logger.C(ctx)

	verdict, err := w.mod.Check(ctx, msg.Content)
	if err != nil {
		return "", perr.WithOp(err, "moderation")
	}
	if !verdict.Valid {
		log.Info().Str("reason", verdict.Reason).Msg("message rejected by moderation")
		w.reply(ctx, msg, verdict.Reason)
		return domain.OutcomeRejected, nil
	}

	c, err := w.campaigns.ActiveByCode(ctx, verdict.CampaignCode, w.now())
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		log.Info().Str("campaign_code", verdict.CampaignCode).Msg("no active campaign for code")
		if w.notifyNoCampaign {
			w.reply(ctx, msg, "no active campaign for code "+verdict.CampaignCode)
		}
		return domain.OutcomeNoCampaign, nil
	}
	if err != nil {
		return "", perr.WithOp(err, "campaign lookup")
	}

	v, err := w.videos.Video(ctx, verdict.TikTokURL)
	if tikapi.IsNotFound(err) {
		log.Warn().Str("url", verdict.TikTokURL).Msg("video unavailable")
		return domain.OutcomeVideoUnavailable, nil
	}
	if err != nil {
		return "", perr.WithOp(err, "video fetch")
	}

	saved, err := w.campaigns.AttachVideo(ctx, campaigns.NewVideo{
		CampaignID:        c.ID,
		URL:               verdict.TikTokURL,
		CreatorID:         v.Author,
		CreatorSocialName: msg.AuthorName,
		Description:       v.Description,
		Stats:             campaigns.Stats(v.Stats),
	})
	if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		log.Info().Str("url", verdict.TikTokURL).Msg("video already tracked")
		return domain.OutcomeDuplicate, nil
	}
	if err != nil {
		return "", perr.WithOp(err, "attach video")
	}

	log.Info().
		Str("campaign_code", c.Code).
		Str("video_id", saved.ID.String()).
		Str("creator_id", saved.CreatorID).
		Msg("video attached")

	payload := VideoAttached{
		CampaignID:   c.ID.String(),
		CampaignCode: c.Code,
		VideoID:      saved.ID.String(),
		URL:          saved.URL,
		CreatorID:    saved.CreatorID,
		MessageID:    msg.ID,
		Stats:        saved.Stats,
	}
	if err := w.events.Publish(ctx, events.TopicVideoAttached, payload); err != nil {
		log.Warn().Err(err).Msg("publish video attached failed")
	}
	return domain.OutcomeAttached, nil
}

// reply posts an error line mentioning the author; failures are only logged
func (w *Workflow) reply(ctx context.Context, msg domain.ChatMessage, reason string) {
	text := fmt.Sprintf("%s@%s %s", ErrorPrefix, msg.AuthorName, reason)
	if err := w.chat.Post(ctx, msg.ChannelID, text); err != nil {
		logger.C(ctx).Error().Err(err).Str("channel_id", msg.ChannelID).Msg("post chat reply failed")
	}
}
