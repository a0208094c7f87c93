package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/postergen/pkg/ports"
)

// NewRouter creates the HTTP router with all routes and middleware
// configured.
func NewRouter(h *Handlers, logger ports.Logger) http.Handler {
	log := logger.WithComponent("http")

	r := chi.NewRouter()
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", h.ListVideos)
		r.Get("/videos/info", h.VideoInfo)
		r.Get("/frames/preview", h.PreviewFrame)
		r.Get("/frames/full", h.FullFrame)
		r.Get("/frames/thumbnails", h.Thumbnails)
		r.Post("/posters/generate", h.GeneratePoster)
	})

	return r
}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		})
	}
}

func recoveryMiddleware(logger ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
