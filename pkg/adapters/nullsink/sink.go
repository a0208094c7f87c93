// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/postergen/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveSceneJSON does nothing.
func (s *Sink) SaveSceneJSON(data []byte) error {
	return nil
}

// SaveBackground does nothing.
func (s *Sink) SaveBackground(img image.Image) error {
	return nil
}

// SaveCanvas does nothing.
func (s *Sink) SaveCanvas(img image.Image) error {
	return nil
}

// SaveFrame does nothing.
func (s *Sink) SaveFrame(timestamp float64, data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
