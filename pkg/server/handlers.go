package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/user/postergen/pkg/framecache"
	"github.com/user/postergen/pkg/library"
	"github.com/user/postergen/pkg/ports"
	"github.com/user/postergen/pkg/poster"
)

const defaultThumbnailCount = 20

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	library    *library.Library
	frames     *framecache.Cache
	compositor *poster.Compositor
	validator  *validator.Validate
	logger     ports.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(lib *library.Library, frames *framecache.Cache, compositor *poster.Compositor, logger ports.Logger) *Handlers {
	return &Handlers{
		library:    lib,
		frames:     frames,
		compositor: compositor,
		validator:  validator.New(),
		logger:     logger.WithComponent("api"),
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		VideoPaths: len(h.library.Roots()),
	})
}

// ListVideos handles GET /api/videos. The optional path query browses a
// subdirectory of every root.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	entries, err := h.library.List(r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// VideoInfo handles GET /api/videos/info.
func (h *Handlers) VideoInfo(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	path := r.URL.Query().Get("path")

	details, err := h.library.Info(r.Context(), base, path)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) || errors.Is(err, library.ErrInvalidPath) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not determine video metadata")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// PreviewFrame handles GET /api/frames/preview, serving a cached
// preview-quality JPEG at the requested timestamp.
func (h *Handlers) PreviewFrame(w http.ResponseWriter, r *http.Request) {
	full, timestamp, ok := h.frameParams(w, r)
	if !ok {
		return
	}

	data, ok := h.frames.Preview(r.Context(), full, timestamp)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to extract frame")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(data)
}

// FullFrame handles GET /api/frames/full, serving a lossless PNG frame.
// Full frames bypass the cache.
func (h *Handlers) FullFrame(w http.ResponseWriter, r *http.Request) {
	full, timestamp, ok := h.frameParams(w, r)
	if !ok {
		return
	}

	data, ok := h.frames.FullQuality(r.Context(), full, timestamp)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Failed to extract frame")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// Thumbnails handles GET /api/frames/thumbnails, returning evenly spaced
// base64-encoded frames for the seek slider.
func (h *Handlers) Thumbnails(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	path := r.URL.Query().Get("path")

	full, err := h.library.Resolve(base, path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	count := defaultThumbnailCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil || count < 1 || count > 100 {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 100")
			return
		}
	}

	info, err := h.library.Info(r.Context(), base, path)
	if err != nil || info.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "Could not determine video duration")
		return
	}

	thumbnails := h.frames.Thumbnails(r.Context(), full, info.Duration, count)

	encoded := make([]string, 0, len(thumbnails))
	for _, frame := range thumbnails {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(frame))
	}

	writeJSON(w, http.StatusOK, ThumbnailsResponse{
		Count:      len(encoded),
		Duration:   info.Duration,
		Thumbnails: encoded,
	})
}

// GeneratePoster handles POST /api/posters/generate.
func (h *Handlers) GeneratePoster(w http.ResponseWriter, r *http.Request) {
	var req GeneratePosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An image background references a library video; resolve it up
	// front so a bad reference fails fast instead of degrading to a
	// black poster.
	sourcePath := ""
	if req.BackgroundMode == poster.ModeImage {
		full, err := h.library.Resolve(req.VideoBase, req.VideoPath)
		if err != nil {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		sourcePath = full
	}

	name, err := h.compositor.Render(r.Context(), req.Scene(sourcePath))
	if err != nil {
		h.logger.Error("Poster generation failed")
		writeError(w, http.StatusInternalServerError, "poster generation failed")
		return
	}

	writeJSON(w, http.StatusOK, GeneratePosterResponse{
		Success:  true,
		Filename: name,
		Message:  "Poster saved as " + name,
	})
}

// frameParams resolves the shared base/path/t query parameters of the
// frame endpoints, writing the error response on failure.
func (h *Handlers) frameParams(w http.ResponseWriter, r *http.Request) (string, float64, bool) {
	base := r.URL.Query().Get("base")
	path := r.URL.Query().Get("path")

	full, err := h.library.Resolve(base, path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Video not found")
		return "", 0, false
	}

	timestamp, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil || timestamp < 0 {
		writeError(w, http.StatusBadRequest, "t must be a non-negative number")
		return "", 0, false
	}

	return full, timestamp, true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
