// Package scheduler rebuilds the dashboard on a cron schedule so the range
// cache stays warm and history keeps accumulating between visits.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/mission-control/internal/render"
	"github.com/go-co-op/gocron"
)

// DefaultCron refreshes every five minutes.
const DefaultCron = "*/5 * * * *"

// DefaultRunTimeout bounds a single refresh.
const DefaultRunTimeout = 2 * time.Minute

// Builder produces a dashboard view.
type Builder interface {
	Build(ctx context.Context) *render.View
}

// Config controls the refresh job.
type Config struct {
	Cron       string        `mapstructure:"cron"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
	Enabled    bool          `mapstructure:"enabled"`
}

// Status describes the refresh job.
type Status struct {
	LastStartedAt   time.Time `json:"last_started_at" yaml:"last_started_at"`
	LastCompletedAt time.Time `json:"last_completed_at" yaml:"last_completed_at"`
	Cron            string    `json:"cron" yaml:"cron"`
	Runs            uint64    `json:"runs" yaml:"runs"`
	LastNotices     int       `json:"last_notices" yaml:"last_notices"`
	Enabled         bool      `json:"enabled" yaml:"enabled"`
	Running         bool      `json:"running" yaml:"running"`
}

// RefreshService runs Builder.Build from a gocron job. Overlapping runs are
// skipped.
type RefreshService struct {
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	builder         Builder
	scheduler       *gocron.Scheduler
	logger          *slog.Logger
	baseCtx         context.Context
	config          Config
	runs            uint64
	lastNotices     int
	wg              sync.WaitGroup
	mu              sync.Mutex
	running         bool
}

// NewRefreshService creates a stopped service.
func NewRefreshService(builder Builder, config Config, logger *slog.Logger) *RefreshService {
	if config.Cron == "" {
		config.Cron = DefaultCron
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultRunTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("refresh scheduler configured",
		"cron", config.Cron,
		"enabled", config.Enabled,
		"run_timeout", config.RunTimeout)

	return &RefreshService{
		builder:   builder,
		scheduler: gocron.NewScheduler(time.Local),
		logger:    logger,
		baseCtx:   context.Background(),
		config:    config,
	}
}

// Start schedules the job and returns immediately. The scheduler stops when
// ctx is canceled. A disabled service does nothing.
func (s *RefreshService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("refresh scheduler disabled by configuration")
		return nil
	}

	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	_, err := s.scheduler.Cron(s.config.Cron).Do(func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh %q: %w", s.config.Cron, err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("refresh scheduler started", "cron", s.config.Cron)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-ctx.Done()
		s.logger.Info("stopping refresh scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// RunOnce performs a refresh unless one is already running. It reports
// whether a refresh ran.
func (s *RefreshService) RunOnce(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Info("refresh already running, skipping")
		return false
	}
	s.running = true
	s.lastStartedAt = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	view := s.builder.Build(runCtx)

	s.mu.Lock()
	s.runs++
	s.lastCompletedAt = time.Now()
	s.lastNotices = len(view.Notices)
	s.mu.Unlock()

	s.logger.Info("dashboard refreshed",
		"duration", time.Since(start),
		"notices", len(view.Notices),
		"percent_reached", view.Derived.PercentReached)

	return true
}

// TriggerManualSync starts a refresh in the background. It reports false
// when a refresh is already running.
func (s *RefreshService) TriggerManualSync() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Info("refresh already running, ignoring manual trigger")
		return false
	}
	ctx := s.baseCtx
	s.mu.Unlock()

	s.logger.Info("manual refresh triggered")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()
	return true
}

// Wait blocks until background refreshes and the stop watcher have exited.
func (s *RefreshService) Wait() {
	s.wg.Wait()
}

// Status reports the job state.
func (s *RefreshService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Enabled:         s.config.Enabled,
		Cron:            s.config.Cron,
		Running:         s.running,
		Runs:            s.runs,
		LastStartedAt:   s.lastStartedAt,
		LastCompletedAt: s.lastCompletedAt,
		LastNotices:     s.lastNotices,
	}
}
