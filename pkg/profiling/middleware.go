package profiling

import (
	"net/http"
	"runtime"
	"strconv"
	"time"
)

// Middleware attaches per-request profiling headers to HTTP handlers.
type Middleware struct {
	enableProfiling bool
}

// NewMiddleware creates a new profiling middleware
func NewMiddleware(enableProfiling bool) *Middleware {
	return &Middleware{
		enableProfiling: enableProfiling,
	}
}

// ProfiledHandler wraps an HTTP handler with profiling capabilities
func (m *Middleware) ProfiledHandler(name string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enableProfiling {
			handler.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()
		var startMemStats runtime.MemStats
		runtime.ReadMemStats(&startMemStats)
		startGoroutines := runtime.NumGoroutine()

		w.Header().Set("X-Profiling-Enabled", "true")
		w.Header().Set("X-Handler-Name", name)

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     200,
		}

		handler.ServeHTTP(wrapped, r)

		var endMemStats runtime.MemStats
		runtime.ReadMemStats(&endMemStats)

		duration := time.Since(startTime)
		memoryDelta := int64(endMemStats.Alloc) - int64(startMemStats.Alloc)
		goroutineDelta := runtime.NumGoroutine() - startGoroutines

		wrapped.Header().Set("X-Duration-Ms", strconv.FormatFloat(float64(duration.Nanoseconds())/1000000.0, 'f', 3, 64))
		wrapped.Header().Set("X-Memory-Delta-Bytes", strconv.FormatInt(memoryDelta, 10))
		wrapped.Header().Set("X-Goroutine-Delta", strconv.Itoa(goroutineDelta))
		wrapped.Header().Set("X-Status-Code", strconv.Itoa(wrapped.statusCode))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
