// Package server provides the HTTP API for browsing videos, extracting
// frames and generating posters. Handlers, middleware and DTOs live here,
// separated from the domain packages they call into.
package server

import "github.com/user/postergen/pkg/poster"

// TextLayerRequest mirrors the editing surface's text layer payload.
type TextLayerRequest struct {
	Content    string   `json:"content" validate:"required"`
	Left       float64  `json:"left" validate:"gte=0,lte=1"`
	Top        float64  `json:"top" validate:"gte=0,lte=1"`
	FontFamily string   `json:"fontFamily"`
	FontSize   float64  `json:"fontSize" validate:"gte=0"`
	Fill       string   `json:"fill"`
	FontWeight string   `json:"fontWeight"`
	FontStyle  string   `json:"fontStyle"`
	Underline  bool     `json:"underline"`
	TextAlign  string   `json:"textAlign"`
	Angle      float64  `json:"angle"`
	ScaleX     float64  `json:"scaleX"`
	ScaleY     float64  `json:"scaleY"`
	Width      *float64 `json:"width"`
	Height     *float64 `json:"height"`
}

// LineElementRequest is a stroke between two normalized endpoints.
type LineElementRequest struct {
	X1          float64 `json:"x1" validate:"gte=0,lte=1"`
	Y1          float64 `json:"y1" validate:"gte=0,lte=1"`
	X2          float64 `json:"x2" validate:"gte=0,lte=1"`
	Y2          float64 `json:"y2" validate:"gte=0,lte=1"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" validate:"gte=0"`
}

// SelectionCoordsRequest is the normalized crop rectangle of an image
// background.
type SelectionCoordsRequest struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GeneratePosterRequest is the HTTP request body for POST /api/posters/generate.
type GeneratePosterRequest struct {
	BackgroundMode    string                 `json:"backgroundMode" validate:"required,oneof=image gradient solid"`
	BackgroundColor   string                 `json:"backgroundColor"`
	GradientColors    []string               `json:"gradientColors"`
	GradientDirection string                 `json:"gradientDirection" validate:"omitempty,oneof=horizontal vertical diagonal"`
	VideoBase         string                 `json:"videoBase"`
	VideoPath         string                 `json:"videoPath"`
	Timestamp         float64                `json:"timestamp" validate:"gte=0"`
	SelectionCoords   SelectionCoordsRequest `json:"selectionCoords"`
	Blur              float64                `json:"blur" validate:"gte=0"`
	CanvasWidth       float64                `json:"canvasWidth" validate:"gte=0"`
	CanvasHeight      float64                `json:"canvasHeight" validate:"gte=0"`
	TextLayers        []TextLayerRequest     `json:"textLayers" validate:"dive"`
	LineElements      []LineElementRequest   `json:"lineElements" validate:"dive"`
	Filename          string                 `json:"filename" validate:"required"`
}

// Scene converts the request into a renderable scene. The video
// reference stays unresolved; the handler owns mapping it to a path.
func (r *GeneratePosterRequest) Scene(sourcePath string) *poster.Scene {
	scene := &poster.Scene{
		BackgroundMode:    r.BackgroundMode,
		BackgroundColor:   r.BackgroundColor,
		GradientColors:    r.GradientColors,
		GradientDirection: r.GradientDirection,
		SourcePath:        sourcePath,
		Timestamp:         r.Timestamp,
		SelectionCoords: poster.SelectionCoords{
			Left:   r.SelectionCoords.Left,
			Top:    r.SelectionCoords.Top,
			Width:  r.SelectionCoords.Width,
			Height: r.SelectionCoords.Height,
		},
		Blur:         r.Blur,
		CanvasWidth:  r.CanvasWidth,
		CanvasHeight: r.CanvasHeight,
		Filename:     r.Filename,
	}

	for _, layer := range r.TextLayers {
		scene.TextLayers = append(scene.TextLayers, poster.TextLayer{
			Content:    layer.Content,
			Left:       layer.Left,
			Top:        layer.Top,
			FontFamily: layer.FontFamily,
			FontSize:   layer.FontSize,
			Fill:       layer.Fill,
			FontWeight: layer.FontWeight,
			FontStyle:  layer.FontStyle,
			Underline:  layer.Underline,
			TextAlign:  layer.TextAlign,
			Angle:      layer.Angle,
			ScaleX:     layer.ScaleX,
			ScaleY:     layer.ScaleY,
			Width:      layer.Width,
			Height:     layer.Height,
		})
	}
	for _, line := range r.LineElements {
		scene.LineElements = append(scene.LineElements, poster.LineElement{
			X1:          line.X1,
			Y1:          line.Y1,
			X2:          line.X2,
			Y2:          line.Y2,
			Stroke:      line.Stroke,
			StrokeWidth: line.StrokeWidth,
		})
	}
	return scene
}

// GeneratePosterResponse is the HTTP response after a successful render.
type GeneratePosterResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// ThumbnailsResponse carries evenly spaced frames for the seek slider.
type ThumbnailsResponse struct {
	Count      int      `json:"count"`
	Duration   float64  `json:"duration"`
	Thumbnails []string `json:"thumbnails"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	VideoPaths int    `json:"video_paths"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}
