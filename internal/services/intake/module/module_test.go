package module

import (
	"context"
	"testing"
	"time"

	"campaigntracker/internal/adapters/moderation"
	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/modkit"
	modreg "campaigntracker/internal/modkit/module"
	"campaigntracker/internal/platform/config"
	campaigns "campaigntracker/internal/services/campaigns/domain"
	"campaigntracker/internal/services/intake/domain"
)

type nopModerator struct{}

func (nopModerator) Check(context.Context, string) (moderation.Verdict, error) {
	return moderation.Verdict{Valid: false, Reason: "no"}, nil
}

type nopCampaigns struct{}

func (nopCampaigns) ActiveByCode(context.Context, string, time.Time) (campaigns.Campaign, error) {
	return campaigns.Campaign{}, nil
}
func (nopCampaigns) AttachVideo(context.Context, campaigns.NewVideo) (campaigns.Video, error) {
	return campaigns.Video{}, nil
}

type nopVideos struct{}

func (nopVideos) Video(context.Context, string) (tikapi.Video, error) { return tikapi.Video{}, nil }

type recChat struct{ posts int }

func (r *recChat) Post(context.Context, string, string) error { r.posts++; return nil }

func TestFromConfig_Defaults(t *testing.T) {
	t.Setenv("CORE_INTAKE_MAX_RETRIES", "")
	o := FromConfig(config.New())
	if o.MaxRetries != 3 || o.RetryDelay != time.Second || o.NotifyNoCampaign {
		t.Fatalf("defaults = %+v", o)
	}
	if len(o.IgnoreAuthors) != 1 || o.IgnoreAuthors[0] != "CorrectionBot" {
		t.Fatalf("ignore = %v", o.IgnoreAuthors)
	}
}

func TestNew_WiresPipelinePort(t *testing.T) {
	t.Setenv("CORE_INTAKE_RETRY_DELAY", "5ms")
	chat := &recChat{}
	m := New(modkit.Deps{}, Collaborators{
		Moderator: nopModerator{},
		Campaigns: nopCampaigns{},
		Videos:    nopVideos{},
		Chat:      chat,
	}, Options{ChannelID: "c1"})

	p := modreg.MustPortsOf[domain.PipelinePort](m)
	res := p.Process(context.Background(), domain.ChatMessage{ChannelID: "c1", AuthorName: "mika", Content: "hi"})
	if res.Outcome != domain.OutcomeRejected || chat.posts != 1 {
		t.Fatalf("result = %+v posts=%d", res, chat.posts)
	}
	if m.Name() != "intake" || m.Prefix() != "" {
		t.Fatalf("name=%q prefix=%q", m.Name(), m.Prefix())
	}
}
