// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"

	"github.com/user/postergen/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSceneJSON saves the parsed poster scene as JSON.
func (s *Sink) SaveSceneJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "scene.json"), data)
}

// SaveBackground saves the composited background layer.
func (s *Sink) SaveBackground(img image.Image) error {
	return s.savePNG(filepath.Join(s.baseDir, "background.png"), img)
}

// SaveCanvas saves the final canvas before flattening.
func (s *Sink) SaveCanvas(img image.Image) error {
	return s.savePNG(filepath.Join(s.baseDir, "canvas.png"), img)
}

// SaveFrame saves a raw extracted frame.
func (s *Sink) SaveFrame(timestamp float64, data []byte) error {
	name := fmt.Sprintf("frame-%08.3f.bin", timestamp)
	return s.fs.WriteFile(filepath.Join(s.baseDir, "frames", name), data)
}

func (s *Sink) savePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return s.fs.WriteFile(path, buf.Bytes())
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
