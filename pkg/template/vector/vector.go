// Package vector implements template.Engine on top of github.com/tdewolff/canvas.
//
// The canvas is laid out in millimetres and rasterised at one dot per
// millimetre, so canvas units equal output pixels. Font sizes are given to
// canvas in points and converted from pixels at the boundary.
package vector

import (
	"fmt"
	"image"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/layout"
	"github.com/xob0t/cardgen/pkg/template"
)

// ptPerPx converts a pixel size at one dot per millimetre to points.
const ptPerPx = 72.0 / 25.4

var _ template.Engine = (*Engine)(nil)

// Engine rasterises text with canvas font families built from the
// FontManager's font data.
type Engine struct {
	fontManager *template.FontManager

	mu       sync.Mutex
	families map[template.Weight]*canvas.FontFamily
}

// New creates a vector engine.
func New(fm *template.FontManager) *Engine {
	return &Engine{
		fontManager: fm,
		families:    make(map[template.Weight]*canvas.FontFamily, 2),
	}
}

// Name implements template.Engine.
func (e *Engine) Name() string { return "vector" }

// Typeset implements template.Engine.
func (e *Engine) Typeset(fonts template.Fonts) (template.Typesetter, error) {
	ts := &typesetter{faces: make(map[layout.Role]*canvas.FontFace, 2)}
	for _, role := range []layout.Role{layout.RoleHeadline, layout.RoleBody} {
		face, err := e.face(fonts.For(role))
		if err != nil {
			return nil, fmt.Errorf("%s face: %w", role, err)
		}
		ts.faces[role] = face
	}
	return ts, nil
}

func (e *Engine) face(fs template.FontSpec) (*canvas.FontFace, error) {
	family, err := e.family(fs.Weight)
	if err != nil {
		return nil, err
	}
	col := generator.ParseHexRGBA(fs.Color)
	return family.Face(fs.Size*ptPerPx, col, canvas.FontRegular, canvas.FontNormal), nil
}

// family loads each weight into its own family once; every family holds a
// single regular style.
func (e *Engine) family(w template.Weight) (*canvas.FontFamily, error) {
	if w != template.WeightBold {
		w = template.WeightNormal
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if f, ok := e.families[w]; ok {
		return f, nil
	}
	f := canvas.NewFontFamily("cardgen-" + string(w))
	if err := f.LoadFont(e.fontManager.Data(w), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load %s font: %w", w, err)
	}
	e.families[w] = f
	return f, nil
}

type typesetter struct {
	faces map[layout.Role]*canvas.FontFace
}

func (t *typesetter) Measure(role layout.Role) layout.MeasureFunc {
	face := t.faces[role]
	return func(s string) float64 {
		if s == "" {
			return 0
		}
		return face.TextWidth(s)
	}
}

func (t *typesetter) Overlay(w, h int, res layout.Result) (*image.RGBA, error) {
	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // origin top-left, y down

	for _, in := range res.Instructions {
		face, ok := t.faces[in.Role]
		if !ok {
			return nil, fmt.Errorf("no face for role %q", in.Role)
		}
		align := canvas.Left
		if in.Align == layout.AlignCenter {
			align = canvas.Center
		}
		ctx.DrawText(in.X, in.Y, canvas.NewTextLine(face, in.Text, align))
	}

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		// Rasteriser rounds up; crop or pad to the template size.
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		copyInto(out, img)
		return out, nil
	}
	return img, nil
}

func (t *typesetter) Close() error { return nil }

func copyInto(dst, src *image.RGBA) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		copy(dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)], src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)])
	}
}
