package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logging middleware adds request logging, performance timing, panic recovery,
// request ID generation and context enrichment for logging.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Generate a request ID if not already set
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
				r.Header.Set("X-Request-ID", requestID)
			}

			// Store the request ID in the context
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			r = r.WithContext(ctx)

			// Create a response writer wrapper to capture response details
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger.Debug("REQUEST",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()))

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("PANIC",
						zap.String("request_id", requestID),
						zap.Any("panic", rec),
						zap.Stack("stack"))

					render.Status(r, http.StatusInternalServerError)
					render.JSON(ww, r, map[string]string{
						"error":      "Internal server error",
						"request_id": requestID,
					})
				}

				logger.Info("RESPONSE",
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)))
			}()

			// Add response headers
			w.Header().Set("X-Request-ID", requestID)

			// Process the request
			next.ServeHTTP(ww, r)
		})
	}
}
