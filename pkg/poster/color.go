package poster

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rgb" or "#rrggbb" (with or without the hash) into
// an opaque color. Unparseable input yields the fallback.
func ParseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

// lerpChannel linearly interpolates one color channel, truncating toward
// zero the way the editing surface's preview does.
func lerpChannel(from, to uint8, ratio float64) uint8 {
	return uint8(int(float64(from) + (float64(to)-float64(from))*ratio))
}
