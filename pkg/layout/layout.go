// Package layout positions headline and body text on a fixed-size canvas.
//
// Layout is pure: it only needs canvas dimensions, a Style and one measuring
// function per text role, so it can be tested without fonts or images.
package layout

import "strings"

// Role tags an instruction with the text role it draws.
type Role string

const (
	RoleHeadline Role = "headline"
	RoleBody     Role = "body"
)

// Align selects how an instruction's X anchor is interpreted.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// ParagraphSeparator splits body text into paragraphs.
const ParagraphSeparator = "\n\n"

// Style holds the positional parameters of a variant, in pixels.
type Style struct {
	Margin             float64 `json:"margin" yaml:"margin"`
	HeadlineY          float64 `json:"headlineY" yaml:"headline_y"`
	HeadlineLineHeight float64 `json:"headlineLineHeight" yaml:"headline_line_height"`
	HeadlineGap        float64 `json:"headlineGap" yaml:"headline_gap"` // after the last headline line
	HeadlineAlign      Align   `json:"headlineAlign" yaml:"headline_align"`
	BodyLineHeight     float64 `json:"bodyLineHeight" yaml:"body_line_height"`
	ParagraphGap       float64 `json:"paragraphGap" yaml:"paragraph_gap"`
	BottomReserve      float64 `json:"bottomReserve" yaml:"bottom_reserve"` // footer area kept free of body text
	BodyAlign          Align   `json:"bodyAlign" yaml:"body_align"`
}

// Request is the input of a single layout pass.
type Request struct {
	Headline string
	Body     string
	Width    float64
	Height   float64
	Style    Style
}

// Instruction draws Text with its baseline at Y. X is the left edge for
// AlignLeft and the horizontal centre for AlignCenter.
type Instruction struct {
	Role  Role
	Text  string
	X, Y  float64
	Width float64
	Align Align
}

// Result is the ordered list of draw instructions for one request.
type Result struct {
	Instructions []Instruction
	Cursor       float64 // baseline the next body line would use
	Truncated    bool    // body lines were dropped at the cutoff
}

// MaxWidth is the wrapping budget shared by both roles.
func (r Request) MaxWidth() float64 {
	return r.Width - 2*r.Style.Margin
}

// Cutoff is the baseline at or below which no body line is drawn.
func (r Request) Cutoff() float64 {
	return r.Height - r.Style.BottomReserve
}

// Layout wraps and positions the headline and body of req. Once a body line
// would start at or past the cutoff, layout stops and every remaining line is
// dropped.
func Layout(req Request, headline, body MeasureFunc) Result {
	st := req.Style
	maxWidth := req.MaxWidth()

	var res Result

	headAnchor := anchorX(st.HeadlineAlign, st.Margin, req.Width)
	headLines := Wrap(req.Headline, maxWidth, headline)
	for i, ln := range headLines {
		res.Instructions = append(res.Instructions, Instruction{
			Role:  RoleHeadline,
			Text:  ln.Text,
			X:     headAnchor,
			Y:     st.HeadlineY + float64(i)*st.HeadlineLineHeight,
			Width: ln.Width,
			Align: alignOrLeft(st.HeadlineAlign),
		})
	}

	cursor := st.HeadlineY + float64(len(headLines))*st.HeadlineLineHeight + st.HeadlineGap
	bodyAnchor := anchorX(st.BodyAlign, st.Margin, req.Width)
	cutoff := req.Cutoff()

	emitted := 0
paragraphs:
	for _, para := range Paragraphs(req.Body) {
		lines := Wrap(para, maxWidth, body)
		if emitted > 0 {
			cursor += st.ParagraphGap
		}
		for _, ln := range lines {
			if cursor >= cutoff {
				res.Truncated = true
				break paragraphs
			}
			res.Instructions = append(res.Instructions, Instruction{
				Role:  RoleBody,
				Text:  ln.Text,
				X:     bodyAnchor,
				Y:     cursor,
				Width: ln.Width,
				Align: alignOrLeft(st.BodyAlign),
			})
			cursor += st.BodyLineHeight
		}
		emitted++
	}

	res.Cursor = cursor
	return res
}

// Paragraphs splits body on ParagraphSeparator, trimming each paragraph and
// dropping blank ones. CRLF line endings are normalised first.
func Paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(body, ParagraphSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Lines returns the instruction texts for role, in draw order.
func (r Result) Lines(role Role) []string {
	var out []string
	for _, in := range r.Instructions {
		if in.Role == role {
			out = append(out, in.Text)
		}
	}
	return out
}

func anchorX(a Align, margin, width float64) float64 {
	if a == AlignCenter {
		return width / 2
	}
	return margin
}

func alignOrLeft(a Align) Align {
	if a == AlignCenter {
		return AlignCenter
	}
	return AlignLeft
}
