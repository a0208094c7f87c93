package poster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/postergen/pkg/adapters/logger"
	"github.com/user/postergen/pkg/adapters/nullsink"
	"github.com/user/postergen/pkg/mocks"
)

func newTestCompositor(t *testing.T, width, height int, source *mocks.FrameSource) (*Compositor, *mocks.FileSystem) {
	t.Helper()
	fs := mocks.NewFileSystem()
	comp, err := New(Options{
		Width:     width,
		Height:    height,
		OutputDir: "/out",
		FontsDir:  "/fonts",
	}, source, fs, nullsink.New(), logger.NewNoop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return comp, fs
}

func decodeOutput(t *testing.T, fs *mocks.FileSystem, name string) image.Image {
	t.Helper()
	data, ok := fs.GetFile("/out/" + name)
	if !ok {
		t.Fatalf("output %s not found", name)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return img
}

func TestRender_SolidBackground(t *testing.T) {
	comp, fs := newTestCompositor(t, 100, 150, mocks.NewFrameSource())

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:  ModeSolid,
		BackgroundColor: "#336699",
		CanvasWidth:     400,
		CanvasHeight:    600,
		Filename:        "solid",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if name != "solid.png" {
		t.Errorf("expected solid.png, got %s", name)
	}

	img := decodeOutput(t, fs, name)
	for _, p := range []image.Point{{0, 0}, {50, 75}, {99, 149}} {
		r, g, b, a := img.At(p.X, p.Y).RGBA()
		if r>>8 != 0x33 || g>>8 != 0x66 || b>>8 != 0x99 {
			t.Errorf("pixel %v = %x %x %x, expected 336699", p, r>>8, g>>8, b>>8)
		}
		if a>>8 != 255 {
			t.Errorf("pixel %v not opaque: alpha=%d", p, a>>8)
		}
	}
}

func TestRender_HorizontalGradient(t *testing.T) {
	const width = 1000
	comp, fs := newTestCompositor(t, width, 60, mocks.NewFrameSource())

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:    ModeGradient,
		GradientColors:    []string{"#000000", "#ffffff"},
		GradientDirection: DirectionHorizontal,
		CanvasWidth:       400,
		CanvasHeight:      600,
		Filename:          "grad",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img := decodeOutput(t, fs, name)

	samples := []struct {
		x        int
		expected int
	}{
		{x: 0, expected: 0},
		{x: width / 2, expected: 127},
		{x: width - 1, expected: 254}, // int(255 * 999/1000)
	}
	for _, s := range samples {
		r, g, b, _ := img.At(s.x, 30).RGBA()
		for name, ch := range map[string]uint32{"r": r >> 8, "g": g >> 8, "b": b >> 8} {
			if diff := int(ch) - s.expected; diff < -1 || diff > 1 {
				t.Errorf("column %d channel %s = %d, expected %d±1", s.x, name, ch, s.expected)
			}
		}
	}
}

func TestRender_VerticalGradient(t *testing.T) {
	comp, fs := newTestCompositor(t, 40, 400, mocks.NewFrameSource())

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:    ModeGradient,
		GradientColors:    []string{"#000000", "#ff0000"},
		GradientDirection: DirectionVertical,
		CanvasWidth:       400,
		CanvasHeight:      600,
		Filename:          "vgrad",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img := decodeOutput(t, fs, name)

	top, _, _, _ := img.At(20, 0).RGBA()
	mid, _, _, _ := img.At(20, 200).RGBA()
	bottom, _, _, _ := img.At(20, 399).RGBA()
	if top>>8 != 0 {
		t.Errorf("top red channel = %d, expected 0", top>>8)
	}
	if diff := int(mid>>8) - 127; diff < -1 || diff > 1 {
		t.Errorf("middle red channel = %d, expected 127±1", mid>>8)
	}
	if bottom>>8 < 250 {
		t.Errorf("bottom red channel = %d, expected near 255", bottom>>8)
	}
}

func TestRender_DiagonalGradientCoversCanvas(t *testing.T) {
	comp, fs := newTestCompositor(t, 80, 120, mocks.NewFrameSource())

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:    ModeGradient,
		GradientColors:    []string{"#ff0000", "#0000ff"},
		GradientDirection: DirectionDiagonal,
		CanvasWidth:       400,
		CanvasHeight:      600,
		Filename:          "dgrad",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img := decodeOutput(t, fs, name)

	// Top-left is dominated by the from-color, bottom-right by the
	// to-color, and no pixel is left at the black base.
	r0, _, b0, _ := img.At(1, 1).RGBA()
	if r0>>8 < 200 || b0>>8 > 60 {
		t.Errorf("top-left = r%d b%d, expected mostly red", r0>>8, b0>>8)
	}
	r1, _, b1, _ := img.At(78, 118).RGBA()
	if b1>>8 < 200 || r1>>8 > 60 {
		t.Errorf("bottom-right = r%d b%d, expected mostly blue", r1>>8, b1>>8)
	}
}

func TestRender_FilenameCollisionSuffix(t *testing.T) {
	comp, _ := newTestCompositor(t, 50, 75, mocks.NewFrameSource())

	scene := func() *Scene {
		return &Scene{
			BackgroundMode:  ModeSolid,
			BackgroundColor: "#000000",
			CanvasWidth:     400,
			CanvasHeight:    600,
			Filename:        "demo",
		}
	}

	expected := []string{"demo.png", "demo_1.png", "demo_2.png"}
	for _, want := range expected {
		name, err := comp.Render(context.Background(), scene())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if name != want {
			t.Errorf("expected %s, got %s", want, name)
		}
	}
}

func TestRender_SanitizesFilename(t *testing.T) {
	comp, _ := newTestCompositor(t, 50, 75, mocks.NewFrameSource())

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:  ModeSolid,
		BackgroundColor: "#000000",
		CanvasWidth:     400,
		CanvasHeight:    600,
		Filename:        "../weird name!.png",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if name != "weirdnamepng.png" {
		t.Errorf("expected weirdnamepng.png, got %s", name)
	}
}

func TestRender_LineElements(t *testing.T) {
	comp, fs := newTestCompositor(t, 100, 100, mocks.NewFrameSource())

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:  ModeSolid,
		BackgroundColor: "#000000",
		CanvasWidth:     400,
		CanvasHeight:    600,
		LineElements: []LineElement{
			// Horizontal stroke across the middle of the canvas.
			{X1: 0, Y1: 0.5, X2: 1, Y2: 0.5, Stroke: "#ff0000", StrokeWidth: 8},
		},
		Filename: "lines",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img := decodeOutput(t, fs, name)

	r, _, _, _ := img.At(50, 50).RGBA()
	if r>>8 < 200 {
		t.Errorf("expected red stroke at canvas center, got r=%d", r>>8)
	}
	r, _, _, _ = img.At(50, 10).RGBA()
	if r>>8 > 50 {
		t.Errorf("expected background above the stroke, got r=%d", r>>8)
	}
}

func TestRender_TextRightAlignment(t *testing.T) {
	comp, fs := newTestCompositor(t, 1000, 1500, mocks.NewFrameSource())

	// canvasHeight 600 -> scaleY 2.5; fontSize 32 -> 80px.
	// bbox: left=0.1 -> 100, width=0.5 -> 500, so the right edge of the
	// line (and its underline) lands at pixel 600.
	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:  ModeSolid,
		BackgroundColor: "#000000",
		CanvasWidth:     400,
		CanvasHeight:    600,
		TextLayers: []TextLayer{
			{
				Content:   "TITLE",
				Left:      0.1,
				Top:       0.1,
				FontSize:  32,
				Fill:      "#ffffff",
				TextAlign: AlignRight,
				Underline: true,
				ScaleX:    1,
				ScaleY:    1,
				Width:     floatPtr(0.5),
			},
		},
		Filename: "title",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img := decodeOutput(t, fs, name)

	// Underline row: top(150) + fontSize(80) + 2.
	const underlineY = 232
	rightmost := -1
	for x := 0; x < 1000; x++ {
		r, _, _, _ := img.At(x, underlineY).RGBA()
		if r>>8 > 128 {
			rightmost = x
		}
	}
	if rightmost < 0 {
		t.Fatal("no underline found")
	}
	if rightmost < 598 || rightmost > 601 {
		t.Errorf("underline right edge at %d, expected 600±1", rightmost)
	}
}

func TestRender_BlankLinesKeepSpacing(t *testing.T) {
	comp, fs := newTestCompositor(t, 400, 600, mocks.NewFrameSource())

	render := func(content, filename string) image.Image {
		name, err := comp.Render(context.Background(), &Scene{
			BackgroundMode:  ModeSolid,
			BackgroundColor: "#000000",
			CanvasWidth:     400,
			CanvasHeight:    600,
			TextLayers: []TextLayer{
				{
					Content:  content,
					Left:     0.1,
					Top:      0.1,
					FontSize: 24,
					Fill:     "#ffffff",
					ScaleY:   1,
				},
			},
			Filename: filename,
		})
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		return decodeOutput(t, fs, name)
	}

	withGap := render("A\n\nB", "gap")
	without := render("A\nB", "nogap")

	// The blank middle line pushes B one slot lower, so the two renders
	// must differ.
	same := true
	for y := 0; y < 600 && same; y++ {
		for x := 0; x < 400; x++ {
			if withGap.At(x, y) != without.At(x, y) {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("blank line should consume a vertical slot")
	}
}

func TestRender_ImageBackgroundFailureKeepsBase(t *testing.T) {
	source := mocks.NewFrameSource()
	source.ExtractFrameLosslessFunc = func(ctx context.Context, path string, timestamp float64) ([]byte, error) {
		return nil, fmt.Errorf("decode timeout")
	}
	comp, fs := newTestCompositor(t, 60, 90, source)

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode: ModeImage,
		SourcePath:     "/videos/a.mp4",
		Timestamp:      5,
		CanvasWidth:    400,
		CanvasHeight:   600,
		Filename:       "fail",
	})
	if err != nil {
		t.Fatalf("Render should not fail on background extraction: %v", err)
	}

	img := decodeOutput(t, fs, name)
	r, g, b, a := img.At(30, 45).RGBA()
	if r != 0 || g != 0 || b != 0 || a>>8 != 255 {
		t.Errorf("expected opaque black base canvas, got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestRender_ImageBackgroundCropAndResize(t *testing.T) {
	// A frame whose left half is red and right half is green. Selecting
	// the right half must fill the whole poster with green.
	frame := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if x < 100 {
				frame.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			} else {
				frame.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		t.Fatal(err)
	}

	source := mocks.NewFrameSource()
	source.ExtractFrameLosslessFunc = func(ctx context.Context, path string, timestamp float64) ([]byte, error) {
		return buf.Bytes(), nil
	}
	comp, fs := newTestCompositor(t, 80, 120, source)

	name, err := comp.Render(context.Background(), &Scene{
		BackgroundMode:  ModeImage,
		SourcePath:      "/videos/a.mp4",
		Timestamp:       1,
		SelectionCoords: SelectionCoords{Left: 0.5, Top: 0, Width: 0.5, Height: 1},
		CanvasWidth:     400,
		CanvasHeight:    600,
		Filename:        "crop",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img := decodeOutput(t, fs, name)
	bounds := img.Bounds()
	if bounds.Dx() != 80 || bounds.Dy() != 120 {
		t.Fatalf("output is %dx%d, expected the configured 80x120", bounds.Dx(), bounds.Dy())
	}
	for _, p := range []image.Point{{5, 5}, {40, 60}, {75, 115}} {
		r, g, _, _ := img.At(p.X, p.Y).RGBA()
		if g>>8 < 200 || r>>8 > 50 {
			t.Errorf("pixel %v = r%d g%d, expected green crop region", p, r>>8, g>>8)
		}
	}
}

func TestCropSelection_ClampsOutOfRange(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 80))

	tests := []struct {
		name string
		sel  SelectionCoords
		w, h int
	}{
		{name: "full frame", sel: SelectionCoords{Left: 0, Top: 0, Width: 1, Height: 1}, w: 100, h: 80},
		{name: "interior", sel: SelectionCoords{Left: 0.25, Top: 0.25, Width: 0.5, Height: 0.5}, w: 50, h: 40},
		{name: "overhanging", sel: SelectionCoords{Left: 0.8, Top: 0.9, Width: 0.5, Height: 0.5}, w: 20, h: 8},
		{name: "fully outside", sel: SelectionCoords{Left: 2, Top: 2, Width: 1, Height: 1}, w: 1, h: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cropSelection(frame, tt.sel)
			b := got.Bounds()
			if b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("crop = %dx%d, expected %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
