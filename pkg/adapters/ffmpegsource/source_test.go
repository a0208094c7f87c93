package ffmpegsource

import (
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "integer rational", input: "24/1", expected: 24.0},
		{name: "ntsc rational", input: "24000/1001", expected: 23.976},
		{name: "pal rational", input: "25/1", expected: 25.0},
		{name: "plain float", input: "29.97", expected: 29.97},
		{name: "zero denominator", input: "24/0", expected: 24.0},
		{name: "garbage", input: "abc", expected: 24.0},
		{name: "empty", input: "", expected: 24.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFrameRate(tt.input)
			if got != tt.expected {
				t.Errorf("parseFrameRate(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJPEGQScale(t *testing.T) {
	tests := []struct {
		quality  int
		expected int
	}{
		{quality: 100, expected: 1},  // (100-100)/3 = 0 -> clamped to 1
		{quality: 85, expected: 5},   // (100-85)/3 = 5
		{quality: 50, expected: 16},  // (100-50)/3 = 16
		{quality: 0, expected: 31},   // (100-0)/3 = 33 -> clamped to 31
		{quality: 97, expected: 1},   // (100-97)/3 = 1
	}

	for _, tt := range tests {
		got := jpegQScale(tt.quality)
		if got != tt.expected {
			t.Errorf("jpegQScale(%d) = %d, expected %d", tt.quality, got, tt.expected)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{input: 0, expected: "0"},
		{input: 1.5, expected: "1.5"},
		{input: 0.001, expected: "0.001"},
		{input: 3599.25, expected: "3599.25"},
	}

	for _, tt := range tests {
		got := formatSeconds(tt.input)
		if got != tt.expected {
			t.Errorf("formatSeconds(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
