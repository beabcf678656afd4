// merge.go - Overlay configured variant fields onto built-in variants.
package template

import "github.com/xob0t/cardgen/pkg/layout"

// MergeVariant applies the non-zero fields of over onto base.
func MergeVariant(base, over Variant) Variant {
	if over.Name != "" {
		base.Name = over.Name
	}
	if over.Delivery != "" {
		base.Delivery = over.Delivery
	}
	base.Fonts.Headline = mergeFont(base.Fonts.Headline, over.Fonts.Headline)
	base.Fonts.Body = mergeFont(base.Fonts.Body, over.Fonts.Body)
	base.Layout = mergeStyle(base.Layout, over.Layout)
	return base
}

// ResolveVariants merges overrides onto the built-in variants. Names not
// already built in become new variants based on DefaultVariant.
func ResolveVariants(overrides map[string]Variant) map[string]Variant {
	out := make(map[string]Variant, len(Variants)+len(overrides))
	for name, v := range Variants {
		out[name] = v
	}
	for name, over := range overrides {
		base, ok := out[name]
		if !ok {
			base = Variants[DefaultVariant]
		}
		merged := MergeVariant(base, over)
		merged.Name = name
		out[name] = merged
	}
	return out
}

func mergeFont(base, over FontSpec) FontSpec {
	if over.Family != "" {
		base.Family = over.Family
	}
	if over.Size > 0 {
		base.Size = over.Size
	}
	if over.Weight != "" {
		base.Weight = over.Weight
	}
	if over.Color != "" {
		base.Color = over.Color
	}
	return base
}

// mergeStyle applies non-zero style overrides. A zero value cannot be set
// through an override.
func mergeStyle(base, over layout.Style) layout.Style {
	if over.Margin > 0 {
		base.Margin = over.Margin
	}
	if over.HeadlineY > 0 {
		base.HeadlineY = over.HeadlineY
	}
	if over.HeadlineLineHeight > 0 {
		base.HeadlineLineHeight = over.HeadlineLineHeight
	}
	if over.HeadlineGap > 0 {
		base.HeadlineGap = over.HeadlineGap
	}
	if over.HeadlineAlign != "" {
		base.HeadlineAlign = over.HeadlineAlign
	}
	if over.BodyLineHeight > 0 {
		base.BodyLineHeight = over.BodyLineHeight
	}
	if over.ParagraphGap > 0 {
		base.ParagraphGap = over.ParagraphGap
	}
	if over.BottomReserve > 0 {
		base.BottomReserve = over.BottomReserve
	}
	if over.BodyAlign != "" {
		base.BodyAlign = over.BodyAlign
	}
	return base
}
