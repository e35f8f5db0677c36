// Package handler implements the dashboard's HTTP endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Veraticus/mission-control/internal/cache"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/scheduler"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DashboardBuilder produces the view behind every dashboard endpoint.
type DashboardBuilder interface {
	Build(ctx context.Context) *render.View
}

// CacheController exposes the range cache to the refresh endpoint.
type CacheController interface {
	Purge()
	Stats() cache.Stats
}

// HistoryLister reads recorded snapshots, newest first.
type HistoryLister interface {
	ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error)
}

// SyncController exposes the refresh scheduler.
type SyncController interface {
	TriggerManualSync() bool
	Status() scheduler.Status
}

// Services are the collaborators of the handlers. Only Dashboard is
// required; endpoints whose collaborator is nil answer with a
// feature-disabled error.
type Services struct {
	Dashboard DashboardBuilder
	Cache     CacheController
	History   HistoryLister
	Sync      SyncController
	Logger    *slog.Logger
}

func (s Services) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
