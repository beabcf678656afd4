package vector

import (
	"image/color"
	"testing"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/layout"
	"github.com/xob0t/cardgen/pkg/template"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	fm, err := template.NewFontManager("", "")
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}
	return New(fm)
}

func TestVectorMeasure(t *testing.T) {
	ts, err := newEngine(t).Typeset(template.Variants[template.DefaultVariant].Fonts)
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	defer ts.Close()

	m := ts.Measure(layout.RoleBody)
	if m("") != 0 {
		t.Errorf("empty width %g", m(""))
	}
	if !(m("a") > 0 && m("a") < m("abc") && m("abc") < m("abc def")) {
		t.Errorf("widths not increasing: %g %g %g", m("a"), m("abc"), m("abc def"))
	}
	// 26px body text: a word of five letters is well under 200px and over 20px.
	if w := m("Hello"); w < 20 || w > 200 {
		t.Errorf("implausible width %g for 26px text", w)
	}
}

func TestVectorCompose(t *testing.T) {
	bg := color.RGBA{250, 250, 250, 255}
	tmpl := generator.NewSolidImage(500, 700, bg)

	img, res, err := template.Compose(tmpl, "Vector headline", "Body text here.", template.Variants["left"], newEngine(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if img.Bounds().Dx() != 500 || img.Bounds().Dy() != 700 {
		t.Fatalf("size %v", img.Bounds())
	}
	if len(res.Instructions) == 0 {
		t.Fatal("no instructions")
	}

	changed := 0
	for y := 0; y < 700; y++ {
		for x := 0; x < 500; x++ {
			if img.RGBAAt(x, y) != bg {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("no text rasterised")
	}
}

func TestVectorFamilyCached(t *testing.T) {
	e := newEngine(t)
	a, err := e.family(template.WeightBold)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.family(template.WeightBold)
	if a != b {
		t.Error("family loaded twice")
	}
	n, _ := e.family("unknown")
	r, _ := e.family(template.WeightNormal)
	if n != r {
		t.Error("unknown weight should share the regular family")
	}
}
