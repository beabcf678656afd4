// engine.go - Text measurement and overlay drawing backends.
package template

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/layout"
)

// Engine creates typesetters for a pair of font contexts.
type Engine interface {
	Name() string
	Typeset(fonts Fonts) (Typesetter, error)
}

// Typesetter measures and draws text for a single request. It is not safe
// for concurrent use.
type Typesetter interface {
	Measure(role layout.Role) layout.MeasureFunc
	// Overlay draws res onto a new transparent w×h image.
	Overlay(w, h int, res layout.Result) (*image.RGBA, error)
	Close() error
}

// FaceEngine draws with golang.org/x/image/font faces.
type FaceEngine struct {
	fontManager *FontManager
	dpi         float64
}

// NewFaceEngine creates the default engine. Font sizes are pixels at 72 DPI.
func NewFaceEngine(fm *FontManager) *FaceEngine {
	return &FaceEngine{fontManager: fm, dpi: 72}
}

// Name implements Engine.
func (e *FaceEngine) Name() string { return "face" }

// Typeset implements Engine.
func (e *FaceEngine) Typeset(fonts Fonts) (Typesetter, error) {
	ts := &faceTypesetter{
		faces:  make(map[layout.Role]font.Face, 2),
		colors: make(map[layout.Role]color.RGBA, 2),
	}
	for _, role := range []layout.Role{layout.RoleHeadline, layout.RoleBody} {
		f := fonts.For(role)
		face, err := e.fontManager.GetFace(f.Weight, f.Size, e.dpi)
		if err != nil {
			ts.Close()
			return nil, fmt.Errorf("%s face: %w", role, err)
		}
		ts.faces[role] = face
		ts.colors[role] = generator.ParseHexRGBA(f.Color)
	}
	return ts, nil
}

type faceTypesetter struct {
	faces  map[layout.Role]font.Face
	colors map[layout.Role]color.RGBA
}

func (t *faceTypesetter) Measure(role layout.Role) layout.MeasureFunc {
	face := t.faces[role]
	return func(s string) float64 {
		return fromFixed(font.MeasureString(face, s))
	}
}

func (t *faceTypesetter) Overlay(w, h int, res layout.Result) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for _, in := range res.Instructions {
		face, ok := t.faces[in.Role]
		if !ok {
			return nil, fmt.Errorf("no face for role %q", in.Role)
		}
		x := in.X
		if in.Align == layout.AlignCenter {
			x -= in.Width / 2
		}
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(t.colors[in.Role]),
			Face: face,
			Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(in.Y)},
		}
		drawer.DrawString(in.Text)
	}
	return img, nil
}

func (t *faceTypesetter) Close() error {
	var first error
	for _, f := range t.faces {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
