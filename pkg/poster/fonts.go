package poster

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/user/postergen/pkg/ports"
)

// System fallback font locations tried after the custom fonts directory.
var systemFallbacks = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans%s.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

// FontResolver loads font faces through a fallback chain: custom family
// file with the exact variant suffix, custom family without a variant,
// the DejaVu system family (with then without variant), Liberation Sans,
// and finally a built-in bitmap face. Load errors fall through to the
// next candidate; the chain always produces a drawable face.
type FontResolver struct {
	fontsDir string
	logger   ports.Logger

	mu    sync.Mutex
	cache map[string]font.Face
}

// NewFontResolver creates a FontResolver reading custom fonts from fontsDir.
func NewFontResolver(fontsDir string, logger ports.Logger) *FontResolver {
	return &FontResolver{
		fontsDir: fontsDir,
		logger:   logger.WithComponent("fonts"),
		cache:    make(map[string]font.Face),
	}
}

// variantSuffix maps bold/italic flags onto the conventional file suffix.
func variantSuffix(bold, italic bool) string {
	switch {
	case bold && italic:
		return "-BoldItalic"
	case bold:
		return "-Bold"
	case italic:
		return "-Italic"
	default:
		return ""
	}
}

// Resolve returns a face for the requested family, size and variant.
func (r *FontResolver) Resolve(family string, size float64, bold, italic bool) font.Face {
	key := fmt.Sprintf("%s|%.1f|%t|%t", family, size, bold, italic)

	r.mu.Lock()
	if face, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return face
	}
	r.mu.Unlock()

	face := r.load(family, size, bold, italic)

	r.mu.Lock()
	r.cache[key] = face
	r.mu.Unlock()
	return face
}

func (r *FontResolver) load(family string, size float64, bold, italic bool) font.Face {
	suffix := variantSuffix(bold, italic)

	candidates := []string{
		filepath.Join(r.fontsDir, family+suffix+".ttf"),
		filepath.Join(r.fontsDir, family+suffix+".otf"),
		filepath.Join(r.fontsDir, family+".ttf"),
		filepath.Join(r.fontsDir, family+".otf"),
		fmt.Sprintf(systemFallbacks[0], suffix),
		systemFallbacks[1],
		systemFallbacks[2],
	}

	for _, path := range candidates {
		face, err := loadFace(path, size)
		if err != nil {
			continue
		}
		return face
	}

	r.logger.Debug("Font %s not found, using fallback", family)
	return basicfont.Face7x13
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s: %w", path, err)
	}
	return face, nil
}
