package handler

import (
	"net/http"
	"strconv"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
	"github.com/Veraticus/mission-control/internal/model"
)

// DefaultHistoryLimit is used when the request has no limit.
const DefaultHistoryLimit = 50

// MaxHistoryLimit caps the limit query parameter.
const MaxHistoryLimit = 1000

type historyResponse struct {
	Snapshots []model.Snapshot `json:"snapshots"`
	Count     int              `json:"count"`
}

// ListHistory returns recorded snapshots, newest first. The optional limit
// query parameter defaults to DefaultHistoryLimit.
func ListHistory(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if services.History == nil {
			apierrors.WriteError(w, apierrors.ErrFeatureDisabled, "history is disabled")
			return
		}

		limit := DefaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				apierrors.WriteError(w, apierrors.ErrInvalidRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, MaxHistoryLimit)
		}

		snaps, err := services.History.ListSnapshots(r.Context(), limit)
		if err != nil {
			services.logger().Error("failed to list snapshots", "error", err)
			apierrors.WriteError(w, apierrors.ErrDatabaseOperation, "failed to list snapshots")
			return
		}
		if snaps == nil {
			snaps = []model.Snapshot{}
		}

		_ = writeJSON(w, http.StatusOK, historyResponse{Snapshots: snaps, Count: len(snaps)})
	}
}
