package poster

import (
	"image"
	"math"
)

// gaussianBlur applies a Gaussian blur with the given radius (sigma, in
// pixels) using a separable two-pass kernel truncated at three sigma.
func gaussianBlur(src *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return src
	}

	kernel := gaussianKernel(radius)
	horizontal := convolve(src, kernel, true)
	return convolve(horizontal, kernel, false)
}

func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(sigma * 3))
	if half < 1 {
		half = 1
	}

	kernel := make([]float64, 2*half+1)
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func convolve(src *image.RGBA, kernel []float64, horizontal bool) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	half := len(kernel) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k, weight := range kernel {
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+k-half, 0, w-1)
				} else {
					sy = clampInt(y+k-half, 0, h-1)
				}
				i := src.PixOffset(bounds.Min.X+sx, bounds.Min.Y+sy)
				r += weight * float64(src.Pix[i])
				g += weight * float64(src.Pix[i+1])
				b += weight * float64(src.Pix[i+2])
				a += weight * float64(src.Pix[i+3])
			}
			o := dst.PixOffset(x, y)
			dst.Pix[o] = uint8(r + 0.5)
			dst.Pix[o+1] = uint8(g + 0.5)
			dst.Pix[o+2] = uint8(b + 0.5)
			dst.Pix[o+3] = uint8(a + 0.5)
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
