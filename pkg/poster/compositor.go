package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/user/postergen/pkg/ports"
)

// defaultBaseName replaces a filename that sanitizes down to nothing.
const defaultBaseName = "poster"

// Options configures a Compositor.
type Options struct {
	Width     int    // Output poster width in pixels
	Height    int    // Output poster height in pixels
	OutputDir string // Directory for rendered posters
	FontsDir  string // Directory searched first for fonts
}

// Compositor renders poster scenes onto a fixed-resolution canvas and
// persists them as PNG. Output dimensions are configuration, independent
// of any scene's editing-canvas size.
type Compositor struct {
	width  int
	height int
	outDir string

	fonts  *FontResolver
	source ports.FrameSource
	fs     ports.FileSystem
	sink   ports.DebugSink
	logger ports.Logger
}

// New creates a Compositor and ensures the output directory exists.
func New(opts Options, source ports.FrameSource, fs ports.FileSystem, sink ports.DebugSink, logger ports.Logger) (*Compositor, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid poster dimensions %dx%d", opts.Width, opts.Height)
	}
	if err := fs.MkdirAll(opts.OutputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &Compositor{
		width:  opts.Width,
		height: opts.Height,
		outDir: opts.OutputDir,
		fonts:  NewFontResolver(opts.FontsDir, logger),
		source: source,
		fs:     fs,
		sink:   sink,
		logger: logger.WithComponent("compositor"),
	}, nil
}

// Render composites the scene and writes the result, returning the stored
// filename (not the full path). Rendering is deterministic given identical
// input and a stable background source.
func (c *Compositor) Render(ctx context.Context, scene *Scene) (string, error) {
	scene.Normalize()

	c.logger.Debug("Rendering poster %dx%d", c.width, c.height)

	if c.sink.Enabled() {
		if data, err := json.Marshal(scene); err == nil {
			c.sink.SaveSceneJSON(data)
		}
	}

	dc := gg.NewContext(c.width, c.height)
	// Butt caps keep strokes inside their endpoints, matching the
	// editing surface's rasterizer.
	dc.SetLineCapButt()
	dc.SetColor(color.Black)
	dc.Clear()

	switch {
	case scene.BackgroundMode == ModeImage && scene.SourcePath != "":
		c.applyImageBackground(ctx, dc, scene)
	case scene.BackgroundMode == ModeGradient && len(scene.GradientColors) >= 2:
		c.applyGradientBackground(dc, scene)
	default:
		c.applySolidBackground(dc, scene.BackgroundColor)
	}

	if c.sink.Enabled() {
		c.sink.SaveBackground(dc.Image())
	}

	// Overlay coordinates were authored against the editing canvas;
	// linear measurements map through these factors, normalized ones
	// multiply against the output dimensions directly.
	scaleX := float64(c.width) / scene.CanvasWidth
	scaleY := float64(c.height) / scene.CanvasHeight

	for _, line := range scene.LineElements {
		c.drawLineElement(dc, line, scaleX)
	}
	for _, layer := range scene.TextLayers {
		c.drawTextLayer(dc, layer, scaleY)
	}

	if c.sink.Enabled() {
		c.sink.SaveCanvas(dc.Image())
	}

	final := flatten(dc.Image())

	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return "", fmt.Errorf("encode poster: %w", err)
	}

	name, err := c.store(buf.Bytes(), scene.Filename)
	if err != nil {
		return "", err
	}

	c.logger.Info("Poster saved as %s", name)
	return name, nil
}

// flatten composites the canvas over an opaque black backdrop so the
// persisted poster carries no residual transparency.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}

// store writes the encoded poster under a sanitized, collision-free name.
// The create is exclusive, so two concurrent renders asking for the same
// name cannot clobber each other; the loser retries with the next suffix.
func (c *Compositor) store(data []byte, requested string) (string, error) {
	base := SanitizeFilename(requested)

	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		name += ".png"

		err := c.fs.CreateNew(filepath.Join(c.outDir, name), data)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, iofs.ErrExist) {
			return "", fmt.Errorf("write poster: %w", err)
		}
	}
}

// SanitizeFilename reduces a requested name to {alphanumeric, _, -},
// substituting a default base name when nothing survives.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return defaultBaseName
	}
	return b.String()
}
