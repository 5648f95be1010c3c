// Package module wires the chat intake pipeline and exposes its ports
package module

import (
	"context"

	"campaigntracker/internal/adapters/events"
	"campaigntracker/internal/modkit"
	"campaigntracker/internal/modkit/httpkit"
	campaigns "campaigntracker/internal/services/campaigns/domain"
	"campaigntracker/internal/services/intake/domain"
	"campaigntracker/internal/services/intake/service"
)

// Ports exposed by the intake module
type Ports struct {
	Pipeline domain.PipelinePort
}

// Collaborators are the adapters and ports the workflow drives
type Collaborators struct {
	Moderator service.Moderator
	Campaigns campaigns.IntakePort
	Videos    service.VideoFetcher
	Chat      service.ChatPoster
	Events    events.Publisher
}

// Module defines the intake worker module
type Module struct {
	deps     modkit.Deps
	pipeline *service.Pipeline
	ports    Ports
}

// New constructs the intake module; non-zero overrides win over config
func New(deps modkit.Deps, c Collaborators, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.ChannelID != "" {
		opts.ChannelID = overrides.ChannelID
	}
	if len(overrides.IgnoreAuthors) > 0 {
		opts.IgnoreAuthors = overrides.IgnoreAuthors
	}
	if overrides.MaxRetries != 0 {
		opts.MaxRetries = overrides.MaxRetries
	}
	if overrides.RetryDelay != 0 {
		opts.RetryDelay = overrides.RetryDelay
	}
	if overrides.NotifyNoCampaign {
		opts.NotifyNoCampaign = true
	}

	flow := service.NewWorkflow(c.Moderator, c.Campaigns, c.Videos, c.Chat,
		service.WithEvents(c.Events),
		service.WithNotifyNoCampaign(opts.NotifyNoCampaign),
	)
	p := service.NewPipeline(service.Config{
		ChannelID:     opts.ChannelID,
		IgnoreAuthors: opts.IgnoreAuthors,
		MaxRetries:    opts.MaxRetries,
		RetryDelay:    opts.RetryDelay,
	}, flow)

	return &Module{deps: deps, pipeline: p, ports: Ports{Pipeline: p}}
}

// Run consumes chat events from src until ctx ends
func (m *Module) Run(ctx context.Context, src service.ChatSource) error {
	return m.pipeline.Run(ctx, src)
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "intake" }

// Prefix returns the module config prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
