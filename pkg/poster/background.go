package poster

import (
	"bytes"
	"context"
	"image"
	"image/color"

	// Frame bytes arrive as PNG (lossless) or JPEG (previews).
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// blurScale compensates for the poster canvas being larger than the
// editing preview, so a given blur setting reads visually identical at
// both scales.
const blurScale = 1.25

// applyImageBackground extracts a lossless frame, crops it to the
// normalized selection rectangle, resizes the crop to the full output
// resolution and composites it over the base canvas. An extraction or
// decode failure keeps the base canvas; posters degrade, they don't fail.
func (c *Compositor) applyImageBackground(ctx context.Context, dc *gg.Context, scene *Scene) {
	data, err := c.source.ExtractFrameLossless(ctx, scene.SourcePath, scene.Timestamp)
	if err != nil {
		c.logger.Warn("Background frame unavailable, keeping base canvas")
		return
	}

	if c.sink.Enabled() {
		c.sink.SaveFrame(scene.Timestamp, data)
	}

	frame, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("Background frame unavailable, keeping base canvas")
		return
	}

	cropped := cropSelection(frame, scene.SelectionCoords)

	// The resize to output resolution, not the source frame resolution,
	// determines final sharpness.
	scaled := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	if scene.Blur > 0 {
		scaled = gaussianBlur(scaled, scene.Blur*blurScale)
	}

	dc.DrawImage(scaled, 0, 0)
}

// cropSelection clamps the normalized selection rectangle to the frame
// bounds and returns the cropped region. Out-of-range geometry is
// constrained, never rejected.
func cropSelection(frame image.Image, sel SelectionCoords) image.Image {
	bounds := frame.Bounds()
	fw, fh := bounds.Dx(), bounds.Dy()

	left := clampInt(int(sel.Left*float64(fw)), 0, fw-1)
	top := clampInt(int(sel.Top*float64(fh)), 0, fh-1)

	right := left + int(sel.Width*float64(fw))
	if right > fw {
		right = fw
	}
	bottom := top + int(sel.Height*float64(fh))
	if bottom > fh {
		bottom = fh
	}
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}

	rect := image.Rect(bounds.Min.X+left, bounds.Min.Y+top, bounds.Min.X+right, bounds.Min.Y+bottom)

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := frame.(subImager); ok {
		return si.SubImage(rect)
	}

	// Decoders in practice return SubImage-capable types; copy as a last resort.
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), frame, rect.Min, draw.Src)
	return out
}

// applyGradientBackground sweeps interpolated lines across the canvas.
// Channels interpolate independently and linearly; the result is opaque.
func (c *Compositor) applyGradientBackground(dc *gg.Context, scene *Scene) {
	if len(scene.GradientColors) < 2 {
		c.applySolidBackground(dc, scene.BackgroundColor)
		return
	}

	from := ParseHexColor(scene.GradientColors[0], color.RGBA{A: 255})
	to := ParseHexColor(scene.GradientColors[1], color.RGBA{R: 51, G: 51, B: 51, A: 255})
	w, h := float64(c.width), float64(c.height)

	switch scene.GradientDirection {
	case DirectionHorizontal:
		dc.SetLineWidth(1)
		for x := 0; x < c.width; x++ {
			ratio := float64(x) / w
			dc.SetColor(lerpColor(from, to, ratio))
			// +0.5 centers the 1px stroke on the pixel column.
			dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, h)
			dc.Stroke()
		}
	case DirectionDiagonal:
		// Sweep anti-diagonal bands; each i spans one clamped segment
		// from the top/left edge to the right/bottom edge. Slightly wide
		// strokes keep the antialiased bands gap-free.
		dc.SetLineWidth(2)
		span := c.width + c.height
		for i := 0; i < span; i++ {
			ratio := float64(i) / float64(span)
			dc.SetColor(lerpColor(from, to, ratio))
			x1 := float64(maxInt(0, i-c.height))
			y1 := float64(minInt(i, c.height))
			x2 := float64(minInt(i, c.width))
			y2 := float64(maxInt(0, i-c.width))
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	default: // vertical
		dc.SetLineWidth(1)
		for y := 0; y < c.height; y++ {
			ratio := float64(y) / h
			dc.SetColor(lerpColor(from, to, ratio))
			dc.DrawLine(0, float64(y)+0.5, w, float64(y)+0.5)
			dc.Stroke()
		}
	}
}

// applySolidBackground fills the canvas with one opaque color.
func (c *Compositor) applySolidBackground(dc *gg.Context, hexColor string) {
	dc.SetColor(ParseHexColor(hexColor, color.RGBA{A: 255}))
	dc.Clear()
}

func lerpColor(from, to color.RGBA, ratio float64) color.RGBA {
	return color.RGBA{
		R: lerpChannel(from.R, to.R, ratio),
		G: lerpChannel(from.G, to.G, ratio),
		B: lerpChannel(from.B, to.B, ratio),
		A: 255,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
