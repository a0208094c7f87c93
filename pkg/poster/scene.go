// Package poster renders layered poster scenes onto a fixed-resolution canvas.
package poster

// Background modes.
const (
	ModeImage    = "image"
	ModeGradient = "gradient"
	ModeSolid    = "solid"
)

// Gradient directions.
const (
	DirectionHorizontal = "horizontal"
	DirectionVertical   = "vertical"
	DirectionDiagonal   = "diagonal"
)

// Text alignments.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// SelectionCoords is a crop rectangle normalized against the source
// frame's own dimensions.
type SelectionCoords struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// TextLayer is one styled, possibly multi-line text overlay. Left/Top are
// the normalized (0-1) origin of the bounding box in canvas space; Width
// and Height, when present, are normalized box dimensions.
//
// Angle and ScaleX are carried through from the editing surface but do
// not affect glyph placement; only ScaleY participates in layout, as a
// font-size multiplier.
type TextLayer struct {
	Content    string   `json:"content" yaml:"content"`
	Left       float64  `json:"left" yaml:"left"`
	Top        float64  `json:"top" yaml:"top"`
	FontFamily string   `json:"fontFamily" yaml:"fontFamily"`
	FontSize   float64  `json:"fontSize" yaml:"fontSize"`
	Fill       string   `json:"fill" yaml:"fill"`
	FontWeight string   `json:"fontWeight" yaml:"fontWeight"`
	FontStyle  string   `json:"fontStyle" yaml:"fontStyle"`
	Underline  bool     `json:"underline" yaml:"underline"`
	TextAlign  string   `json:"textAlign" yaml:"textAlign"`
	Angle      float64  `json:"angle" yaml:"angle"`
	ScaleX     float64  `json:"scaleX" yaml:"scaleX"`
	ScaleY     float64  `json:"scaleY" yaml:"scaleY"`
	Width      *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height     *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// LineElement is a straight stroke between two normalized endpoints.
// StrokeWidth is expressed in editing-canvas units.
type LineElement struct {
	X1          float64 `json:"x1" yaml:"x1"`
	Y1          float64 `json:"y1" yaml:"y1"`
	X2          float64 `json:"x2" yaml:"x2"`
	Y2          float64 `json:"y2" yaml:"y2"`
	Stroke      string  `json:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"strokeWidth"`
}

// Scene is the complete description of one poster render: a background,
// the editing-canvas size the overlay coordinates were authored in, the
// ordered overlays, and the desired output name.
//
// SourcePath is the already-resolved path of the background video; the
// request layer owns mapping logical (base, path) pairs onto it.
type Scene struct {
	BackgroundMode    string          `json:"backgroundMode" yaml:"backgroundMode"`
	BackgroundColor   string          `json:"backgroundColor" yaml:"backgroundColor"`
	GradientColors    []string        `json:"gradientColors" yaml:"gradientColors"`
	GradientDirection string          `json:"gradientDirection" yaml:"gradientDirection"`
	SourcePath        string          `json:"sourcePath,omitempty" yaml:"source,omitempty"`
	Timestamp         float64         `json:"timestamp" yaml:"timestamp"`
	SelectionCoords   SelectionCoords `json:"selectionCoords" yaml:"selectionCoords"`
	Blur              float64         `json:"blur" yaml:"blur"`
	CanvasWidth       float64         `json:"canvasWidth" yaml:"canvasWidth"`
	CanvasHeight      float64         `json:"canvasHeight" yaml:"canvasHeight"`
	TextLayers        []TextLayer     `json:"textLayers" yaml:"textLayers"`
	LineElements      []LineElement   `json:"lineElements" yaml:"lineElements"`
	Filename          string          `json:"filename" yaml:"filename"`
}

// Normalize fills zero values with the editing surface's defaults so a
// sparse scene (hand-written YAML, partial JSON) renders the same as a
// fully populated one.
func (s *Scene) Normalize() {
	if s.CanvasWidth <= 0 {
		s.CanvasWidth = 400
	}
	if s.CanvasHeight <= 0 {
		s.CanvasHeight = 600
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = "#000000"
	}
	if s.GradientDirection == "" {
		s.GradientDirection = DirectionVertical
	}
	if s.SelectionCoords.Width <= 0 {
		s.SelectionCoords.Width = 1
	}
	if s.SelectionCoords.Height <= 0 {
		s.SelectionCoords.Height = 1
	}
}
