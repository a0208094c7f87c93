package poster

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	tests := []struct {
		name     string
		input    string
		expected color.RGBA
	}{
		{name: "six digit", input: "#ff8000", expected: color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{name: "no hash", input: "336699", expected: color.RGBA{R: 51, G: 102, B: 153, A: 255}},
		{name: "three digit", input: "#f80", expected: color.RGBA{R: 255, G: 136, B: 0, A: 255}},
		{name: "white", input: "#ffffff", expected: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "black", input: "#000000", expected: color.RGBA{A: 255}},
		{name: "surrounding space", input: " #102030 ", expected: color.RGBA{R: 16, G: 32, B: 48, A: 255}},
		{name: "garbage", input: "not-a-color", expected: fallback},
		{name: "too short", input: "#ff", expected: fallback},
		{name: "empty", input: "", expected: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHexColor(tt.input, fallback)
			if got != tt.expected {
				t.Errorf("ParseHexColor(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "demo", expected: "demo"},
		{input: "My Poster (v2)", expected: "MyPosterv2"},
		{input: "a_b-c.png", expected: "a_b-cpng"},
		{input: "../../etc/passwd", expected: "etcpasswd"},
		{input: "日本語", expected: "poster"},
		{input: "", expected: "poster"},
		{input: "///", expected: "poster"},
	}

	for _, tt := range tests {
		got := SanitizeFilename(tt.input)
		if got != tt.expected {
			t.Errorf("SanitizeFilename(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
