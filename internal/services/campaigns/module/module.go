// Package module wires the campaigns service and exposes its ports
package module

import (
	"campaigntracker/internal/modkit"
	phttp "campaigntracker/internal/platform/net/http"
	"campaigntracker/internal/services/campaigns/domain"
	campaignshttp "campaigntracker/internal/services/campaigns/http"
	"campaigntracker/internal/services/campaigns/repo"
	"campaigntracker/internal/services/campaigns/service"
)

// Ports exposed by the campaigns module
type Ports struct {
	Campaigns domain.ServicePort
	Intake    domain.IntakePort
	Tracking  domain.TrackingPort
}

// Module serves campaign endpoints and owns the campaign tables
type Module struct {
	modkit.Base
}

// New constructs the campaigns module; music resolves audio links for code derivation
func New(deps modkit.Deps, music service.MusicLookup, opts ...modkit.Option) *Module {
	svc := service.New(deps.PG, repo.NewPG(), music)

	defaults := []modkit.Option{
		modkit.WithName("campaigns"),
		modkit.WithPrefix("/campaigns"),
		modkit.WithPorts(Ports{Campaigns: svc, Intake: svc, Tracking: svc}),
		modkit.WithRegister(func(r phttp.Router) { campaignshttp.Register(r, svc) }),
	}
	return &Module{Base: modkit.NewBase(defaults, opts...)}
}

