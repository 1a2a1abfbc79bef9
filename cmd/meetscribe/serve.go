package main

import (
	"context"
	"errors"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/meetscribe/internal/server"
	"github.com/nguyentantai21042004/meetscribe/internal/watcher"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the inbox watcher when paths.inbox is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := a.logger
	log.Info(ctx, "========================================")
	log.Info(ctx, "meetscribe (%s environment)", a.cfg.Server.Environment)
	log.Info(ctx, "System: %s/%s, %d cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Byte budget: %d, segment policy: %s", a.cfg.Audio.ByteBudget, a.cfg.Audio.SegmentPolicy)
	log.Info(ctx, "========================================")

	srv := server.New(server.Options{
		Addr:        a.cfg.Server.Addr,
		Prefix:      a.cfg.Server.Prefix,
		Dev:         a.cfg.IsDev(),
		FrontendURL: a.cfg.Server.FrontendURL,
		MaxUploadMB: a.cfg.Server.MaxUploadMB,
	}, server.Deps{
		Transcription: a.transcription,
		Summary:       a.summary,
		Store:         a.store,
		Recorder:      a.recorder,
		Logger:        log,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })

	if inbox := a.cfg.Paths.Inbox; inbox != "" {
		w, err := watcher.New(inbox, a.transcription.HandleInboxFile, log, a.cfg.Transcription.MaxConcurrent)
		if err != nil {
			return err
		}
		defer w.Stop()

		g.Go(func() error {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	log.Info(context.Background(), "meetscribe stopped")
	return err
}
