// renderer.go - Composition of text overlays onto the background template.
// Pipeline per request: load template -> layout -> overlay -> composite -> encode.
// All layout math uses the loaded template's own dimensions.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/layout"
)

var (
	// ErrTemplate reports a missing, unreadable or corrupt template.
	ErrTemplate = errors.New("template unavailable")
	// ErrRender reports a failure while drawing, compositing or encoding.
	ErrRender = errors.New("render failed")
)

// Renderer produces composed images from a template file.
type Renderer struct {
	engine       Engine
	templatePath string
	format       string
}

// NewRenderer creates a renderer that reads the template at templatePath on
// every call and encodes results in format ("png" or "tiff").
func NewRenderer(engine Engine, templatePath, format string) *Renderer {
	return &Renderer{
		engine:       engine,
		templatePath: templatePath,
		format:       generator.NormalizeFormat(format),
	}
}

// Format returns the output encoding of the renderer.
func (r *Renderer) Format() string { return r.format }

// Render composes headline and body over the template using variant v.
func (r *Renderer) Render(v Variant, headline, body string) (*image.RGBA, layout.Result, error) {
	tmpl, err := LoadTemplate(r.templatePath)
	if err != nil {
		return nil, layout.Result{}, err
	}
	return Compose(tmpl, headline, body, v, r.engine)
}

// RenderEncoded is Render followed by encoding. Nothing is returned unless
// every step succeeds.
func (r *Renderer) RenderEncoded(v Variant, headline, body string) ([]byte, layout.Result, error) {
	img, res, err := r.Render(v, headline, body)
	if err != nil {
		return nil, res, err
	}

	var buf bytes.Buffer
	if err := generator.Encode(&buf, img, r.format); err != nil {
		return nil, res, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), res, nil
}

// Compose lays out headline and body against tmpl's dimensions, draws them on
// a transparent overlay and composites it over tmpl.
func Compose(tmpl image.Image, headline, body string, v Variant, engine Engine) (*image.RGBA, layout.Result, error) {
	b := tmpl.Bounds()

	ts, err := engine.Typeset(v.Fonts)
	if err != nil {
		return nil, layout.Result{}, fmt.Errorf("%w: %w", ErrRender, err)
	}
	defer ts.Close()

	req := layout.Request{
		Headline: headline,
		Body:     body,
		Width:    float64(b.Dx()),
		Height:   float64(b.Dy()),
		Style:    v.Layout,
	}
	res := layout.Layout(req, ts.Measure(layout.RoleHeadline), ts.Measure(layout.RoleBody))

	overlay, err := ts.Overlay(b.Dx(), b.Dy(), res)
	if err != nil {
		return nil, res, fmt.Errorf("%w: overlay: %w", ErrRender, err)
	}

	return Composite(tmpl, overlay), res, nil
}

// Composite draws overlay over base with source-over blending. The result
// has base's size with its origin at (0, 0).
func Composite(base, overlay image.Image) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	return out
}
