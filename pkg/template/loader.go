// loader.go - Load the background template image.
package template

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// LoadTemplate decodes the template at path, applying any EXIF orientation.
// Failures wrap ErrTemplate.
func LoadTemplate(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no template path configured", ErrTemplate)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %w", ErrTemplate, path, err)
	}
	return checkBounds(img, path)
}

// DecodeTemplate is LoadTemplate for an in-memory template.
func DecodeTemplate(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrTemplate, err)
	}
	return checkBounds(img, "template")
}

func checkBounds(img image.Image, name string) (image.Image, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s has empty bounds %v", ErrTemplate, name, b)
	}
	return img, nil
}
