// validator.go - Sanity checks for variant definitions.
package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/xob0t/cardgen/pkg/layout"
)

// ValidateVariant returns a warning for every field that will not render as
// intended. Warnings are never fatal.
func ValidateVariant(v Variant) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf("variant %q: ", v.Name)+fmt.Sprintf(format, args...))
	}

	for _, role := range []layout.Role{layout.RoleHeadline, layout.RoleBody} {
		f := v.Fonts.For(role)
		if f.Size <= 0 {
			warn("%s font size %g must be positive", role, f.Size)
		}
		if f.Weight != WeightNormal && f.Weight != WeightBold {
			warn("%s font weight %q is not normal or bold; regular is used", role, f.Weight)
		}
		if _, err := colorful.Hex(f.Color); err != nil {
			warn("%s color %q is not #rrggbb; white is used", role, f.Color)
		}
	}

	st := v.Layout
	for name, a := range map[string]layout.Align{"headline": st.HeadlineAlign, "body": st.BodyAlign} {
		if a != layout.AlignLeft && a != layout.AlignCenter {
			warn("%s align %q is not left or center; left is used", name, a)
		}
	}
	if st.HeadlineLineHeight <= 0 || st.BodyLineHeight <= 0 {
		warn("line heights must be positive")
	}
	if st.Margin < 0 {
		warn("negative margin %g", st.Margin)
	}
	if v.Delivery != DeliveryInline && v.Delivery != DeliveryFile {
		warn("unknown delivery %q", v.Delivery)
	}

	sort.Strings(warnings)
	return warnings
}

// FormatVariants returns a human-readable listing of variants.
func FormatVariants(variants map[string]Variant) string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		v := variants[name]
		fmt.Fprintf(&sb, "%s (%s delivery)\n", name, v.Delivery)
		fmt.Fprintf(&sb, "    headline: %gpx %s %s, %s at y=%g\n",
			v.Fonts.Headline.Size, v.Fonts.Headline.Weight, v.Fonts.Headline.Color, v.Layout.HeadlineAlign, v.Layout.HeadlineY)
		fmt.Fprintf(&sb, "    body:     %gpx %s %s, %s, line %g, paragraph gap %g\n",
			v.Fonts.Body.Size, v.Fonts.Body.Weight, v.Fonts.Body.Color, v.Layout.BodyAlign, v.Layout.BodyLineHeight, v.Layout.ParagraphGap)
	}
	return sb.String()
}
