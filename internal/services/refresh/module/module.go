// Package module wires the stats refresh scheduler and exposes its ports
package module

import (
	"context"

	"campaigntracker/internal/adapters/events"
	"campaigntracker/internal/modkit"
	"campaigntracker/internal/modkit/httpkit"
	"campaigntracker/internal/modkit/repokit"
	campaigns "campaigntracker/internal/services/campaigns/domain"
	"campaigntracker/internal/services/refresh/domain"
	"campaigntracker/internal/services/refresh/guardrails"
	"campaigntracker/internal/services/refresh/history"
	"campaigntracker/internal/services/refresh/service"
)

// Ports exposed by the refresh module
type Ports struct {
	Runner domain.RunnerPort
}

// Module defines the refresh worker module
type Module struct {
	deps  modkit.Deps
	opts  Options
	svc   *service.Svc
	ports Ports
}

// New constructs the refresh module over the campaigns tracking port
func New(deps modkit.Deps, tracking campaigns.TrackingPort, videos service.VideoFetcher, pub events.Publisher) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(tracking, videos, service.Config{Gap: opts.Gap, EnableLeases: opts.EnableLeases})
	if deps.PG != nil {
		leaseDB := repokit.WithBeginHooks(deps.PG, repokit.LocalStatementTimeout(opts.StatementTimeout))
		svc.Lease = guardrails.MakeDayLease(leaseDB, "refresh", opts.LeaseTTL)
	}
	svc.History = history.New(deps.CH)
	if pub != nil {
		svc.Events = pub
	}

	return &Module{deps: deps, opts: opts, svc: svc, ports: Ports{Runner: svc}}
}

// Init creates the lease table and the ClickHouse history table when enabled
func (m *Module) Init(ctx context.Context) error {
	if m.deps.PG != nil && m.opts.EnableLeases {
		if _, err := m.deps.PG.Exec(ctx, guardrails.Schema); err != nil {
			return err
		}
	}
	if ch, ok := m.svc.History.(*history.CH); ok {
		return ch.Ensure(ctx)
	}
	return nil
}

// Run starts the cron schedule and blocks until ctx ends
func (m *Module) Run(ctx context.Context) error {
	s, err := service.NewScheduler(m.svc, m.opts.Schedule, m.opts.RunOnStart)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "refresh" }

// Prefix returns the module config prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
