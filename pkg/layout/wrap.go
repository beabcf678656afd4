// wrap.go - Greedy line breaking over measured string widths.
package layout

import "strings"

// MeasureFunc returns the rendered pixel width of s.
type MeasureFunc func(s string) float64

// Line is one wrapped line and its measured width.
type Line struct {
	Text  string
	Width float64
}

// Wrap breaks text into lines no wider than maxWidth. Words are never split:
// a single word wider than maxWidth is emitted as its own line. Empty or
// whitespace-only text yields no lines. A non-positive maxWidth disables
// wrapping.
func Wrap(text string, maxWidth float64, measure MeasureFunc) []Line {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if maxWidth <= 0 {
		joined := strings.Join(words, " ")
		return []Line{{Text: joined, Width: measure(joined)}}
	}

	var lines []Line
	current := ""
	currentWidth := 0.0
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		w := measure(candidate)
		if w > maxWidth && current != "" {
			lines = append(lines, Line{Text: current, Width: currentWidth})
			current = word
			currentWidth = measure(word)
			continue
		}
		current = candidate
		currentWidth = w
	}
	if current != "" {
		lines = append(lines, Line{Text: current, Width: currentWidth})
	}

	return lines
}
