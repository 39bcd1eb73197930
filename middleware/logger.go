package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

type Middleware func(http.Handler) http.Handler

// WrappedWriter records the status code and body size of a response
type WrappedWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

// Implement the http.ResponseWriter interface
func (w *WrappedWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.statusCode = statusCode
}

func (w *WrappedWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logger logs every request once it has been served.
// Server errors are logged at error level.
func Logger(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &WrappedWriter{statusCode: http.StatusOK, ResponseWriter: w}

			next.ServeHTTP(wrapped, r)

			level := slog.LevelInfo
			if wrapped.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "request",
				slog.Int("code", wrapped.statusCode),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("bytes", wrapped.bytes),
				slog.Int64("durationMS", time.Since(start).Milliseconds()))
		})
	}
}
