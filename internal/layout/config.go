package layout

// Margins are the distances kept free at each edge of the surface.
type Margins struct {
	InlineStart float64 `json:"inline_start"`
	InlineEnd   float64 `json:"inline_end"`
	BlockStart  float64 `json:"block_start"`
	BlockEnd    float64 `json:"block_end"`
}

// FinalLineMode decides where the last line of a paragraph is placed.
type FinalLineMode int

const (
	// FinalLineInPlace paints the final line at the current cursor, one
	// line height below the previous line.
	FinalLineInPlace FinalLineMode = iota
	// FinalLineAdvance moves the cursor down one more line height before
	// the final line is painted.
	FinalLineAdvance
)

func (m FinalLineMode) String() string {
	if m == FinalLineAdvance {
		return "advance"
	}
	return "in-place"
}

// ParseFinalLineMode accepts "advance" and "in-place" (or empty).
func ParseFinalLineMode(s string) FinalLineMode {
	if s == "advance" {
		return FinalLineAdvance
	}
	return FinalLineInPlace
}

// Config holds the styling constants shared by every text block of an image.
type Config struct {
	Margins          Margins       `json:"margins"`
	Padding          float64       `json:"padding"`
	LineHeightFactor float64       `json:"line_height_factor"`
	LineHeight       float64       `json:"line_height"` // fixed, overrides LineHeightFactor when > 0
	BlockGap         float64       `json:"block_gap"`
	LogoHeight       float64       `json:"logo_height"`
	FinalLine        FinalLineMode `json:"final_line"`
}

const (
	DefaultMargin           = 20
	DefaultPadding          = 10
	DefaultLineHeightFactor = 1.2
)

// DefaultConfig returns the margins and spacing used by the OpenGraph preset.
func DefaultConfig() Config {
	return Config{
		Margins: Margins{
			InlineStart: DefaultMargin,
			InlineEnd:   DefaultMargin,
			BlockStart:  DefaultMargin,
			BlockEnd:    DefaultMargin,
		},
		Padding:          DefaultPadding,
		LineHeightFactor: DefaultLineHeightFactor,
		BlockGap:         DefaultPadding,
	}
}

// MaxWidth is the widest a line may measure on a surface of the given width.
func (c Config) MaxWidth(surfaceWidth float64) float64 {
	return c.MaxWidthWithin(surfaceWidth, c.Margins)
}

// MaxWidthWithin is MaxWidth with explicit margins.
func (c Config) MaxWidthWithin(surfaceWidth float64, m Margins) float64 {
	return surfaceWidth - m.InlineStart - m.InlineEnd - c.Padding
}

// LineHeightFor returns the baseline distance for a font of the given size.
func (c Config) LineHeightFor(fontSize float64) float64 {
	if c.LineHeight > 0 {
		return c.LineHeight
	}
	f := c.LineHeightFactor
	if f <= 0 {
		f = DefaultLineHeightFactor
	}
	return fontSize * f
}

// TextTop is the first baseline's y position, below the logo when one is drawn.
func (c Config) TextTop(hasLogo bool) float64 {
	if !hasLogo {
		return c.Margins.BlockStart
	}
	return c.Margins.BlockStart + c.LogoHeight + c.Padding
}
