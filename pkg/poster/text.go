package poster

import (
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// drawLineElement scales a line's normalized endpoints into output space
// and strokes it. Stroke width is authored in editing-canvas units, so it
// scales by scaleX and is floored at one output pixel.
func (c *Compositor) drawLineElement(dc *gg.Context, line LineElement, scaleX float64) {
	x1 := line.X1 * float64(c.width)
	y1 := line.Y1 * float64(c.height)
	x2 := line.X2 * float64(c.width)
	y2 := line.Y2 * float64(c.height)

	width := int(line.StrokeWidth * scaleX)
	if width < 1 {
		width = 1
	}

	dc.SetColor(ParseHexColor(line.Stroke, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	dc.SetLineWidth(float64(width))
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
}

// drawTextLayer renders one text layer: multi-line, aligned within its
// bounding box, optionally underlined. The vertical scale factor doubles
// as a font-size multiplier; a per-layer ScaleY compounds it.
func (c *Compositor) drawTextLayer(dc *gg.Context, layer TextLayer, scaleY float64) {
	bboxLeft := int(layer.Left * float64(c.width))
	bboxTop := int(layer.Top * float64(c.height))

	boxNorm := 0.5
	if layer.Width != nil && *layer.Width > 0 {
		boxNorm = *layer.Width
	}
	bboxWidth := int(boxNorm * float64(c.width))

	layerScale := layer.ScaleY
	if layerScale <= 0 {
		layerScale = 1
	}
	baseSize := layer.FontSize
	if baseSize <= 0 {
		baseSize = 32
	}
	fontSize := int(baseSize * scaleY * layerScale)
	if fontSize < 1 {
		return
	}

	family := layer.FontFamily
	if family == "" {
		family = "Arial"
	}
	face := c.fonts.Resolve(family, float64(fontSize),
		layer.FontWeight == "bold", layer.FontStyle == "italic")
	dc.SetFontFace(face)

	fill := ParseHexColor(layer.Fill, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	// A fixed heuristic rather than face metrics, so spacing matches the
	// editing surface.
	lineHeight := int(float64(fontSize) * 1.2)
	ascent := face.Metrics().Ascent.Ceil()

	lines := strings.Split(layer.Content, "\n")
	for i, line := range lines {
		// Blank lines keep their slot but draw nothing.
		if strings.TrimSpace(line) == "" {
			continue
		}

		lineY := bboxTop + i*lineHeight
		lineWidth := font.MeasureString(face, line).Ceil()

		var lineX int
		switch layer.TextAlign {
		case AlignLeft:
			lineX = bboxLeft
		case AlignRight:
			lineX = bboxLeft + bboxWidth - lineWidth
		default: // center
			lineX = bboxLeft + (bboxWidth-lineWidth)/2
		}

		dc.SetColor(fill)
		dc.DrawString(line, float64(lineX), float64(lineY+ascent))

		if layer.Underline {
			underlineY := float64(lineY + fontSize + 2)
			thickness := fontSize / 16
			if thickness < 1 {
				thickness = 1
			}
			dc.SetLineWidth(float64(thickness))
			dc.DrawLine(float64(lineX), underlineY, float64(lineX+lineWidth), underlineY)
			dc.Stroke()
		}
	}
}
