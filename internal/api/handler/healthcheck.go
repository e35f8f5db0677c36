package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthcheckHandler answers with the current server time.
func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(time.Now().Format(time.RFC3339))); err != nil {
			slog.Warn("error responding to healthcheck", "error", err)
		}
	})
}
