// @title         Campaign Tracker API
// @version       0.1.0
// @description   Campaign management and video lookup endpoints

package main

import (
	"context"
	"os/signal"
	"syscall"

	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/modkit"
	"campaigntracker/internal/modkit/repokit"
	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/platform/logger"
	phttp "campaigntracker/internal/platform/net/http"
	"campaigntracker/internal/platform/net/middleware"
	"campaigntracker/internal/platform/store"

	"campaigntracker/internal/services/api"
	campaignsrepo "campaigntracker/internal/services/campaigns/repo"

	"github.com/go-chi/chi/v5"
)

func main() {
	// .env is optional; real env always wins
	_ = config.Load()
	logger.Init(logger.FromEnv())
	defer func() { _ = logger.Close() }()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConfig(root, "tracker", "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if apiCfg.MayBool("INIT_SCHEMA", true) {
		if _, err := st.PG.Exec(ctx, campaignsrepo.Schema); err != nil {
			l.Panic().Err(err).Msg("campaign schema init failed")
		}
	}

	deps := modkit.FromStore(root, st)

	var tikOpts []tikapi.Option
	if deps.RDS != nil {
		tikOpts = append(tikOpts, tikapi.WithKV(deps.RDS))
	}
	media := tikapi.New(tikapi.FromConfig(root.Prefix("CORE_TIKAPI_")), tikOpts...)

	// http server (reads CORE_API_API_PORT and the timeout keys); heartbeat sits outside /api
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/ping"))
	})

	api.Mount(srv.Router(), api.Options{
		Config:        apiCfg,
		Deps:          deps,
		Media:         media,
		Service:       "tracker-api",
		EnableSwagger: apiCfg.MayBool("SWAGGER", true),
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("tracker-api stopped")
}
