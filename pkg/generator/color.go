// color.go - Colour parsing and solid image creation.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a "#rgb" or "#rrggbb" string.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParseHexRGBA converts a hex string to color.RGBA.
// Returns white on any parse error (safe default for rendering).
func ParseHexRGBA(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return c
}

// NewSolidImage creates a uniform solid-color image using draw.Draw (O(1) fill).
func NewSolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}
