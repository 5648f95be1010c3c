// Package module wires the media lookups into the API
package module

import (
	"campaigntracker/internal/modkit"
	phttp "campaigntracker/internal/platform/net/http"
	mediahttp "campaigntracker/internal/services/api/media/http"
)

// Module serves video and audio info
type Module struct {
	modkit.Base
}

// New constructs the media module over a video data lookup
func New(l mediahttp.Lookup, opts ...modkit.Option) *Module {
	defaults := []modkit.Option{
		modkit.WithName("media"),
		modkit.WithPrefix("/media"),
		modkit.WithRegister(func(r phttp.Router) { mediahttp.Register(r, l) }),
	}
	return &Module{Base: modkit.NewBase(defaults, opts...)}
}
