package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"campaigntracker/internal/adapters/chat/discord"
	"campaigntracker/internal/adapters/events"
	"campaigntracker/internal/adapters/moderation"
	"campaigntracker/internal/adapters/tikapi"
	"campaigntracker/internal/modkit"
	"campaigntracker/internal/modkit/module"
	"campaigntracker/internal/modkit/repokit"
	"campaigntracker/internal/platform/config"
	"campaigntracker/internal/platform/logger"
	"campaigntracker/internal/platform/store"

	campaignsmod "campaigntracker/internal/services/campaigns/module"
	campaignsrepo "campaigntracker/internal/services/campaigns/repo"
	intakemod "campaigntracker/internal/services/intake/module"
	refreshmod "campaigntracker/internal/services/refresh/module"

	"golang.org/x/sync/errgroup"
)

func main() {
	fMode := flag.String("mode", "all", "what to run: all | intake | refresh | refresh-once")
	flag.Parse()

	_ = config.Load()
	logger.Init(logger.FromEnv())
	defer func() { _ = logger.Close() }()

	root := config.New()
	workerCfg := root.Prefix("CORE_WORKER_")
	l := logger.Get()

	switch *fMode {
	case "all", "intake", "refresh", "refresh-once":
	default:
		l.Panic().Str("mode", *fMode).Msg("unknown -mode")
	}
	runIntake := *fMode == "all" || *fMode == "intake"
	runRefresh := *fMode == "all" || *fMode == "refresh"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConfig(root, "tracker", "worker"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if workerCfg.MayBool("INIT_SCHEMA", true) {
		if _, err := st.PG.Exec(ctx, campaignsrepo.Schema); err != nil {
			l.Panic().Err(err).Msg("campaign schema init failed")
		}
	}

	deps := modkit.FromStore(root, st)

	var tikOpts []tikapi.Option
	if deps.RDS != nil {
		tikOpts = append(tikOpts, tikapi.WithKV(deps.RDS))
	}
	videos := tikapi.New(tikapi.FromConfig(root.Prefix("CORE_TIKAPI_")), tikOpts...)

	pub, err := events.FromConfig(root.Prefix("SERVICE_"))
	if err != nil {
		l.Panic().Err(err).Msg("events publisher failed")
	}
	defer func() { _ = pub.Close() }()

	// campaigns owns the storage; the workers only see its ports
	cm := campaignsmod.New(deps, videos)
	module.Register(cm.Name(), cm.Ports())
	cports := module.MustPortsOf[campaignsmod.Ports](cm)

	rm := refreshmod.New(deps, cports.Tracking, videos, pub)
	module.Register(rm.Name(), rm.Ports())
	if err := rm.Init(ctx); err != nil {
		l.Panic().Err(err).Msg("refresh init failed")
	}

	if *fMode == "refresh-once" {
		sum, err := module.MustPortsOf[refreshmod.Ports](rm).Runner.RunOnce(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("refresh run failed")
		}
		l.Info().
			Str("run_id", sum.RunID).
			Int("videos", sum.Videos).
			Int("failed", sum.Failed).
			Dur("took", sum.Duration()).
			Msg("refresh run done")
		return
	}

	g, gctx := errgroup.WithContext(ctx)

	if runIntake {
		chat, err := discord.New(discord.FromConfig(root.Prefix("CHAT_DISCORD_")))
		if err != nil {
			l.Panic().Err(err).Msg("discord client failed")
		}
		im := intakemod.New(deps, intakemod.Collaborators{
			Moderator: moderation.New(moderation.FromConfig(root.Prefix("CORE_MODERATION_"))),
			Campaigns: cports.Intake,
			Videos:    videos,
			Chat:      chat,
			Events:    pub,
		}, intakemod.Options{ChannelID: chat.ChannelID()})
		module.Register(im.Name(), im.Ports())

		g.Go(func() error { return im.Run(gctx, chat) })
	}
	if runRefresh {
		g.Go(func() error { return rm.Run(gctx) })
	}

	l.Info().Str("mode", *fMode).Msg("tracker-worker started")
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("worker stopped with error")
		return
	}
	l.Info().Msg("tracker-worker stopped")
}
