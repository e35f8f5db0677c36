package handler

import (
	"net/http"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
)

// RunSync starts a background refresh.
func RunSync(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if services.Sync == nil {
			apierrors.WriteError(w, apierrors.ErrFeatureDisabled, "scheduler is disabled")
			return
		}

		if !services.Sync.TriggerManualSync() {
			apierrors.WriteError(w, apierrors.ErrConflict, "refresh already running")
			return
		}

		_ = writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "refresh started",
		})
	}
}

// SyncStatus reports the scheduler state.
func SyncStatus(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if services.Sync == nil {
			apierrors.WriteError(w, apierrors.ErrFeatureDisabled, "scheduler is disabled")
			return
		}
		_ = writeJSON(w, http.StatusOK, services.Sync.Status())
	}
}
