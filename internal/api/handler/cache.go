package handler

import (
	"net/http"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
)

// RefreshCache purges the range cache and returns a freshly built view.
func RefreshCache(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if services.Cache == nil {
			apierrors.WriteError(w, apierrors.ErrFeatureDisabled, "cache is disabled")
			return
		}

		services.Cache.Purge()
		services.logger().Info("cache purged", "source", "api")

		view := services.Dashboard.Build(r.Context())
		if err := writeJSON(w, http.StatusOK, view); err != nil {
			services.logger().Warn("failed to write dashboard", "error", err)
		}
	}
}

// CacheStats reports cache hits, misses and entries.
func CacheStats(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if services.Cache == nil {
			apierrors.WriteError(w, apierrors.ErrFeatureDisabled, "cache is disabled")
			return
		}
		_ = writeJSON(w, http.StatusOK, services.Cache.Stats())
	}
}
