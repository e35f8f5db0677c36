// Package middleware holds the alice constructors shared by all routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
	"github.com/google/uuid"
)

type contextKeyRequestID string

// RequestIDKey stores the correlation id in the request context.
const RequestIDKey contextKeyRequestID = "requestID"

// RequestIDHeader carries the correlation id on the response.
const RequestIDHeader = "X-Request-ID"

// SlowRequest is the duration above which a request is logged as slow.
const SlowRequest = 500 * time.Millisecond

// CorrelationID returns the request's correlation id, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Logging assigns a correlation id and logs each request on completion.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := r.Header.Get(RequestIDHeader)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}
			r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, correlationID))
			w.Header().Set(RequestIDHeader, correlationID)

			lrw := newLoggingResponseWriter(w)
			start := time.Now()

			next.ServeHTTP(lrw, r)

			elapsed := time.Since(start)
			attrs := []any{
				"correlation_id", correlationID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", lrw.statusCode,
				"duration_ms", elapsed.Milliseconds(),
			}

			switch {
			case lrw.statusCode >= 500:
				logger.Error("request failed", attrs...)
			case lrw.statusCode >= 400:
				logger.Warn("request rejected", attrs...)
			default:
				logger.Info("request completed", attrs...)
			}

			if elapsed > SlowRequest {
				logger.Warn("slow request", attrs...)
			}
		})
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{w, http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LogPanic recovers from handler panics, logs the stack and answers 500.
func LogPanic(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := make([]byte, 4096)
					stack = stack[:runtime.Stack(stack, false)]

					logger.Error("panic serving request",
						"correlation_id", CorrelationID(r.Context()),
						"panic_error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack_trace", string(stack))

					apierrors.WriteError(w, apierrors.ErrInternalServer, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
