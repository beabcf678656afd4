// fonts.go - Font loading with custom TTF support and embedded Go fonts as fallback.
// Regular and bold weights are parsed once and shared read-only; faces are
// created per call because font.Face values are not safe for concurrent use.
package template

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager holds the parsed regular and bold fonts.
type FontManager struct {
	data   map[Weight][]byte
	parsed map[Weight]*opentype.Font
}

// NewFontManager loads the given TTF/OTF files. An empty or unreadable path
// falls back to the embedded Go font of the same weight.
func NewFontManager(regularPath, boldPath string) (*FontManager, error) {
	fm := &FontManager{
		data:   make(map[Weight][]byte, 2),
		parsed: make(map[Weight]*opentype.Font, 2),
	}

	sources := []struct {
		weight   Weight
		path     string
		fallback []byte
	}{
		{WeightNormal, regularPath, goregular.TTF},
		{WeightBold, boldPath, gobold.TTF},
	}

	for _, src := range sources {
		data := readFont(src.path)
		if data == nil {
			data = src.fallback
		}

		parsed, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", src.weight, err)
		}
		fm.data[src.weight] = data
		fm.parsed[src.weight] = parsed
	}

	return fm, nil
}

func readFont(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("warning: could not load font %q, using default: %v", path, err)
		return nil
	}
	return data
}

// Data returns the raw font file for weight. Unknown weights get the regular font.
func (fm *FontManager) Data(w Weight) []byte {
	if d, ok := fm.data[w]; ok {
		return d
	}
	return fm.data[WeightNormal]
}

// GetFace returns a font.Face at the specified size.
func (fm *FontManager) GetFace(w Weight, size float64, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = 72
	}

	parsed, ok := fm.parsed[w]
	if !ok {
		parsed = fm.parsed[WeightNormal]
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	return face, nil
}
