package ports

import (
	"context"
)

// VideoInfo contains metadata about a video file.
type VideoInfo struct {
	Duration    float64 `json:"duration"` // Duration in seconds
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
	Codec       string  `json:"codec"`
	Size        int64   `json:"size"` // File size in bytes
}

// FrameSource abstracts the external decoder that turns (path, timestamp)
// into a single still image. Implementations are expected to be slow and
// fallible; every failure mode surfaces as an error, never a panic.
type FrameSource interface {
	// Probe returns metadata for a video file.
	Probe(ctx context.Context, path string) (*VideoInfo, error)

	// ExtractFrame extracts one lossy (JPEG) frame at the given timestamp.
	// width <= 0 keeps the source resolution. quality is 0-100.
	ExtractFrame(ctx context.Context, path string, timestamp float64, width, quality int) ([]byte, error)

	// ExtractFrameLossless extracts one lossless (PNG) frame at the given
	// timestamp at full source resolution.
	ExtractFrameLossless(ctx context.Context, path string, timestamp float64) ([]byte, error)
}
