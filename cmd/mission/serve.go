package main

import (
	"log/slog"

	"github.com/Veraticus/mission-control/internal/api"
	"github.com/Veraticus/mission-control/internal/api/handler"
	"github.com/Veraticus/mission-control/internal/scheduler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard page, its JSON view and SVG charts.

Routes:
  GET  /                   dashboard page
  GET  /api/dashboard      dashboard as JSON
  GET  /charts/:name       pie, bar or summary chart as SVG
  GET  /api/history        recorded snapshots (history.enabled)
  POST /api/cache/refresh  purge the range cache and rebuild
  GET  /api/cache/stats    cache hits and misses
  POST /api/sync/run       run the refresh job now (scheduler.enabled)
  GET  /api/sync/status    refresh job status
  GET  /healthcheck        liveness`,
		RunE: runServe,
	}

	cmd.Flags().String("host", "", "listen host (default from server.host)")
	cmd.Flags().String("port", "", "listen port (default from server.port)")
	_ = viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	_ = viper.BindPFlag("server.tls.enabled", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	services := handler.Services{
		Dashboard: a.service,
		Logger:    slog.Default(),
	}
	if a.cache != nil {
		services.Cache = a.cache
	}
	if a.store != nil {
		services.History = a.store
	}

	var refresher *scheduler.RefreshService
	if a.config.Scheduler.Enabled {
		refresher = scheduler.NewRefreshService(a.service, a.config.Scheduler, slog.Default())
		if err := refresher.Start(ctx); err != nil {
			return err
		}
		services.Sync = refresher
	}

	srv, err := api.New(a.config.Server, services)
	if err != nil {
		return err
	}

	err = srv.Run(ctx)
	if refresher != nil {
		refresher.Wait()
	}
	return err
}
