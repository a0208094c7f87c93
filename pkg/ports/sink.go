package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate render results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSceneJSON saves the parsed poster scene as JSON.
	SaveSceneJSON(data []byte) error

	// SaveBackground saves the composited background layer.
	SaveBackground(img image.Image) error

	// SaveCanvas saves the final canvas before flattening.
	SaveCanvas(img image.Image) error

	// SaveFrame saves a raw extracted frame.
	SaveFrame(timestamp float64, data []byte) error
}
