package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/mission-control/internal/cache"
	"github.com/Veraticus/mission-control/internal/config"
	"github.com/Veraticus/mission-control/internal/dashboard"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/Veraticus/mission-control/internal/storage"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// app holds the wired components shared by the subcommands.
type app struct {
	config  *config.Config
	service *dashboard.Service
	cache   *cache.Fetcher
	store   *storage.SnapshotStore
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// newApp wires the fetcher, cache, history store and dashboard service. A
// ConfigurationError from the credential loader is returned as is.
func newApp(ctx context.Context, withHistory bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg}

	var fetcher sheets.Fetcher
	if demo {
		if cfg.Sheets.SpreadsheetID == "" {
			cfg.Sheets.SpreadsheetID = "demo"
		}
		fetcher = demoFetcher(cfg.Sheets)
		slog.Info("using built-in sample data")
	} else {
		reader, err := sheets.NewReader(ctx, cfg.Sheets, slog.Default())
		if err != nil {
			return nil, err
		}
		fetcher = reader
	}

	if cfg.Cache.Enabled {
		a.cache = cache.New(fetcher, cfg.Cache.TTL)
		fetcher = a.cache
	}

	opts := []dashboard.Option{dashboard.WithLogger(slog.Default())}
	if withHistory && cfg.History.Enabled {
		store, err := openHistory(ctx, cfg.History)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
		opts = append(opts, dashboard.WithRecorder(store))
	}

	a.service = dashboard.NewService(fetcher, dashboard.Config{
		Title:         cfg.Dashboard.Title,
		CountdownPath: cfg.Dashboard.CountdownPath,
		Numbers:       cfg.Sheets.Numbers(),
		Charts:        cfg.Sheets.Charts(),
		Columns:       cfg.Metrics.Columns.ColumnMap(),
		ChartColumns:  cfg.Charts,
	}, opts...)

	return a, nil
}

func openHistory(ctx context.Context, cfg storage.Config) (*storage.SnapshotStore, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history store: %w", err)
	}
	return store, nil
}

// Close releases the cache sweeper and the history database.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

// terminalWidth returns the width of stdout, or the default when stdout is
// not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec // file descriptors fit in int
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return render.DefaultTerminalWidth
}
