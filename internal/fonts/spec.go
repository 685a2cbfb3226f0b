package fonts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoSize is returned when a font shorthand carries no size.
var ErrNoSize = errors.New("font size missing")

// Weight is the coarse weight class used to pick a font file.
type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
)

func (w Weight) String() string {
	switch w {
	case Medium:
		return "medium"
	case Bold:
		return "bold"
	default:
		return "regular"
	}
}

// Spec selects a font face.
type Spec struct {
	Family string
	Size   float64 // pixels at 72 DPI
	Weight Weight
	Italic bool
}

func (s Spec) String() string {
	var b strings.Builder
	if s.Italic {
		b.WriteString("italic ")
	}
	if s.Weight != Regular {
		b.WriteString(s.Weight.String())
		b.WriteByte(' ')
	}
	b.WriteString(strconv.FormatFloat(s.Size, 'f', -1, 64))
	b.WriteString("px ")
	b.WriteString(s.Family)
	return b.String()
}

// ParseCSS parses a canvas font shorthand such as "bold 30px Impact" or
// `italic 600 16pt "Open Sans", sans-serif`. Only the first family is kept.
func ParseCSS(s string) (Spec, error) {
	var spec Spec
	fields := strings.Fields(s)
	i := 0
	for ; i < len(fields); i++ {
		f := strings.ToLower(fields[i])
		if size, ok := parseSize(f); ok {
			spec.Size = size
			i++
			break
		}
		switch f {
		case "normal", "small-caps":
		case "italic", "oblique":
			spec.Italic = true
		default:
			w, ok := parseWeight(f)
			if !ok {
				return Spec{}, fmt.Errorf("font %q: unexpected %q before size", s, fields[i])
			}
			spec.Weight = w
		}
	}
	if spec.Size <= 0 {
		return Spec{}, fmt.Errorf("font %q: %w", s, ErrNoSize)
	}
	family := strings.Join(fields[i:], " ")
	if idx := strings.IndexByte(family, ','); idx >= 0 {
		family = family[:idx]
	}
	spec.Family = strings.Trim(strings.TrimSpace(family), `"'`)
	return spec, nil
}

// parseSize accepts "30px", "12pt" and "30px/1.2" (line height is ignored).
func parseSize(f string) (float64, bool) {
	if idx := strings.IndexByte(f, '/'); idx >= 0 {
		f = f[:idx]
	}
	scale := 1.0
	switch {
	case strings.HasSuffix(f, "px"):
		f = strings.TrimSuffix(f, "px")
	case strings.HasSuffix(f, "pt"):
		f = strings.TrimSuffix(f, "pt")
		scale = 4.0 / 3.0
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v * scale, true
}

func parseWeight(f string) (Weight, bool) {
	switch f {
	case "bold", "bolder", "black", "heavy":
		return Bold, true
	case "medium", "semibold", "demibold":
		return Medium, true
	case "lighter", "light", "thin":
		return Regular, true
	}
	n, err := strconv.Atoi(f)
	if err != nil {
		return Regular, false
	}
	switch {
	case n >= 700:
		return Bold, true
	case n >= 500:
		return Medium, true
	default:
		return Regular, true
	}
}
