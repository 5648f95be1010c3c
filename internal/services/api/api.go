// Package api provides the HTTP API for the application
package api

import (
	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/core/version"
	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/platform/logger"
	phttp "campaigntracker/internal/platform/net/http"

	"campaigntracker/internal/modkit"
	"campaigntracker/internal/modkit/httpkit"
	"campaigntracker/internal/modkit/module"
	"campaigntracker/internal/modkit/swaggerkit"

	mediamod "campaigntracker/internal/services/api/media/module"
	metamod "campaigntracker/internal/services/api/meta/module"
	campaignsmod "campaigntracker/internal/services/campaigns/module"
)

// BasePath is where the versioned API is mounted
const BasePath = "/api/v1"

// Options are the API options
type Options struct {
	Config        config.Conf
	Deps          modkit.Deps
	Media         *tikapi.Client
	Service       string
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	log := logger.Named("api")

	mods := []module.Module{
		metamod.New(opt.Deps, opt.Service),
		campaignsmod.New(opt.Deps, opt.Media),
		mediamod.New(opt.Media),
	}

	if opt.EnableSwagger {
		build := version.Info(opt.Service)
		swaggerkit.Register(func(doc map[string]any) {
			if info, ok := doc["info"].(map[string]any); ok {
				info["version"] = build.Version
			}
		})
	}
	swaggerkit.Mount(r, opt.EnableSwagger, BasePath)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackFromConfig(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})
}
