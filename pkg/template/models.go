// Package template composes headline and body text over a background template image.
package template

import "github.com/xob0t/cardgen/pkg/layout"

// ── Font types ──

// Weight selects the regular or bold face of the font set.
type Weight string

const (
	WeightNormal Weight = "normal"
	WeightBold   Weight = "bold"
)

// FontSpec is the font context of one text role.
type FontSpec struct {
	Family string  `json:"family" yaml:"family"` // informational; faces come from the FontManager
	Size   float64 `json:"size" yaml:"size"`     // pixels
	Weight Weight  `json:"weight" yaml:"weight"`
	Color  string  `json:"color" yaml:"color"` // "#rrggbb"
}

// Fonts pairs the headline and body font contexts of a variant.
type Fonts struct {
	Headline FontSpec `json:"headline" yaml:"headline"`
	Body     FontSpec `json:"body" yaml:"body"`
}

// For returns the font context of role.
func (f Fonts) For(role layout.Role) FontSpec {
	if role == layout.RoleHeadline {
		return f.Headline
	}
	return f.Body
}

// ── Variant types ──

// Delivery is how a generated image reaches the caller.
type Delivery string

const (
	DeliveryInline Delivery = "inline" // image bytes in the response body
	DeliveryFile   Delivery = "file"   // saved to storage, URL in a JSON response
)

// Variant is a named combination of fonts, positions and delivery.
type Variant struct {
	Name     string       `json:"name" yaml:"name"`
	Fonts    Fonts        `json:"fonts" yaml:"fonts"`
	Layout   layout.Style `json:"layout" yaml:"layout"`
	Delivery Delivery     `json:"delivery" yaml:"delivery"`
}

// DefaultVariant is used when no variant is configured.
const DefaultVariant = "centered"

const textColor = "#273039"

// Variants holds the built-in style variants.
var Variants = map[string]Variant{
	"centered": {
		Name: "centered",
		Fonts: Fonts{
			Headline: FontSpec{Family: "Go", Size: 38, Weight: WeightBold, Color: textColor},
			Body:     FontSpec{Family: "Go", Size: 26, Weight: WeightNormal, Color: textColor},
		},
		Layout: layout.Style{
			Margin:             50,
			HeadlineY:          250,
			HeadlineLineHeight: 50,
			HeadlineGap:        60,
			HeadlineAlign:      layout.AlignCenter,
			BodyLineHeight:     38,
			ParagraphGap:       35,
			BottomReserve:      180,
			BodyAlign:          layout.AlignLeft,
		},
		Delivery: DeliveryInline,
	},
	"left": {
		Name: "left",
		Fonts: Fonts{
			Headline: FontSpec{Family: "Go", Size: 44, Weight: WeightBold, Color: textColor},
			Body:     FontSpec{Family: "Go", Size: 28, Weight: WeightNormal, Color: textColor},
		},
		Layout: layout.Style{
			Margin:             60,
			HeadlineY:          220,
			HeadlineLineHeight: 54,
			HeadlineGap:        50,
			HeadlineAlign:      layout.AlignLeft,
			BodyLineHeight:     40,
			ParagraphGap:       20,
			BottomReserve:      160,
			BodyAlign:          layout.AlignLeft,
		},
		Delivery: DeliveryInline,
	},
	"published": {
		Name: "published",
		Fonts: Fonts{
			Headline: FontSpec{Family: "Go", Size: 40, Weight: WeightBold, Color: textColor},
			Body:     FontSpec{Family: "Go", Size: 26, Weight: WeightNormal, Color: textColor},
		},
		Layout: layout.Style{
			Margin:             50,
			HeadlineY:          230,
			HeadlineLineHeight: 52,
			HeadlineGap:        56,
			HeadlineAlign:      layout.AlignCenter,
			BodyLineHeight:     38,
			ParagraphGap:       30,
			BottomReserve:      180,
			BodyAlign:          layout.AlignLeft,
		},
		Delivery: DeliveryFile,
	},
}

// LookupVariant returns the built-in variant called name.
func LookupVariant(name string) (Variant, bool) {
	v, ok := Variants[name]
	return v, ok
}
