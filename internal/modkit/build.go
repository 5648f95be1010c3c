package modkit

import (
	"net/http"

	phttp "campaigntracker/internal/platform/net/http"
	pstrings "campaigntracker/internal/platform/strings"
)

// Built is the resolved module configuration
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	register []func(phttp.Router)
}

// Build applies options over defaults; later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		register: append(([]func(phttp.Router))(nil), c.register...),
	}
}

// ModuleName returns the module name and panics when it was never set
func (b Built) ModuleName() string { return pstrings.MustString(b.Name, "module name") }

// MountRoutes mounts every register under Prefix with the module middlewares;
// an empty prefix mounts on r directly
func (b Built) MountRoutes(r phttp.Router) {
	mount := func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		for _, reg := range b.register {
			reg(rr)
		}
	}
	if b.Prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(pstrings.MustPrefix(b.Prefix), mount)
}
