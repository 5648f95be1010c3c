// Package module wires meta endpoints into the API
package module

import (
	"time"

	"campaigntracker/internal/modkit"
	phttp "campaigntracker/internal/platform/net/http"

	metahttp "campaigntracker/internal/services/api/meta/http"
)

// Module serves health, readiness and build info
type Module struct {
	modkit.Base
}

// New constructs a meta module; service names the binary in responses
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	hd := metahttp.Deps{
		ServiceName: service,
		StartedAt:   time.Now(),
		PG:          pinger(deps.PG),
		CH:          pinger(deps.CH),
		RDS:         pinger(deps.RDS),
	}

	defaults := []modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithRegister(func(r phttp.Router) { metahttp.Register(r, hd) }),
	}
	return &Module{Base: modkit.NewBase(defaults, opts...)}
}

// pinger returns seam as a Pinger, or nil when it is unset or cannot ping
func pinger(seam any) metahttp.Pinger {
	if p, ok := seam.(metahttp.Pinger); ok {
		return p
	}
	return nil
}
