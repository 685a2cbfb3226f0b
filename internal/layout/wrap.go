// Package layout breaks text into lines that fit a measured width.
package layout

import (
	"iter"
	"slices"
	"strings"
)

// Measurer reports the rendered size of a string in the active font.
// *gg.Context satisfies it.
type Measurer interface {
	MeasureString(s string) (w, h float64)
}

// Line is one wrapped line and the y position of its baseline.
type Line struct {
	Text      string
	BaselineY float64
	Width     float64
}

// Paragraph is a single run of text to be wrapped greedily.
type Paragraph struct {
	Text       string
	MaxWidth   float64
	LineHeight float64
	StartY     float64
	FinalLine  FinalLineMode
}

// Lines yields the wrapped lines of p in order. Words are packed onto a line
// until the line, with a trailing space, measures wider than MaxWidth. A word
// that is wider than MaxWidth on its own still gets a line to itself. The
// last line is always yielded, even for empty text.
//
// The sequence measures lazily and may be ranged over any number of times.
func (p Paragraph) Lines(m Measurer) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		words := strings.Fields(p.Text)
		y := p.StartY
		line := ""
		commit := func(s string) bool {
			s = strings.TrimRight(s, " ")
			w, _ := m.MeasureString(s)
			return yield(Line{Text: s, BaselineY: y, Width: w})
		}

		for _, word := range words {
			test := line + word + " "
			w, _ := m.MeasureString(test)
			if w > p.MaxWidth && line != "" {
				if !commit(line) {
					return
				}
				line = word + " "
				y += p.LineHeight
			} else {
				line = test
			}
		}

		if p.FinalLine == FinalLineAdvance {
			y += p.LineHeight
		}
		commit(line)
	}
}

// Wrap collects Lines into a slice.
func (p Paragraph) Wrap(m Measurer) []Line {
	return slices.Collect(p.Lines(m))
}

// Join reassembles wrapped lines with single spaces, skipping empty lines.
func Join(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Text != "" {
			parts = append(parts, l.Text)
		}
	}
	return strings.Join(parts, " ")
}
