package imagepkg

import (
	"image/color"
	"time"

	"github.com/youruser/ogcanvas/internal/fonts"
	"github.com/youruser/ogcanvas/internal/layout"
	"github.com/youruser/ogcanvas/internal/util"
)

const (
	OGWidth  = 1200
	OGHeight = 630

	ogTitleSize       = 64
	ogDescriptionSize = 32
	ogDateSize        = 24
	ogMargin          = 60
)

var ogDateColor = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}

// OGOptions are the inputs of an OpenGraph preview image. A zero Width or
// Height takes the 1200x630 default for that dimension.
type OGOptions struct {
	Title           string
	Description     string
	Date            time.Time
	Width           int
	Height          int
	Background      []byte
	BackgroundColor color.Color
	TextColor       color.Color
	Logo            []byte
	QRText          string
	Format          Format
	FinalLine       layout.FinalLineMode
}

// OGLayout returns the margins used for OpenGraph images. The top margin
// leaves room for the ascent of the title's first line.
func OGLayout() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.Margins = layout.Margins{
		InlineStart: ogMargin,
		InlineEnd:   ogMargin,
		BlockStart:  ogMargin + ogTitleSize,
		BlockEnd:    ogMargin,
	}
	cfg.Padding = 20
	cfg.BlockGap = 20
	return cfg
}

// OGRequest builds the ImageRequest for opts: a bold title, the description
// and the month of Date, each only when set.
func OGRequest(opts OGOptions) ImageRequest {
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = OGWidth
	}
	if h == 0 {
		h = OGHeight
	}
	text := opts.TextColor
	if text == nil {
		text = color.Black
	}
	cfg := OGLayout()
	cfg.FinalLine = opts.FinalLine

	var blocks []TextBlock
	if opts.Title != "" {
		blocks = append(blocks, TextBlock{
			Content: opts.Title,
			Font:    fonts.Spec{Family: fonts.FamilyGo, Size: ogTitleSize, Weight: fonts.Bold},
			Color:   text,
		})
	}
	if opts.Description != "" {
		blocks = append(blocks, TextBlock{
			Content: opts.Description,
			Font:    fonts.Spec{Family: fonts.FamilyGo, Size: ogDescriptionSize},
			Color:   text,
		})
	}
	if !opts.Date.IsZero() {
		blocks = append(blocks, TextBlock{
			Content: util.PrettyDate(opts.Date),
			Font:    fonts.Spec{Family: fonts.FamilyGo, Size: ogDateSize},
			Color:   ogDateColor,
		})
	}

	return ImageRequest{
		Width:           w,
		Height:          h,
		Background:      opts.BackgroundColor,
		BackgroundImage: opts.Background,
		Logo:            opts.Logo,
		QRText:          opts.QRText,
		Texts:           blocks,
		Layout:          cfg,
		Format:          opts.Format,
	}
}

// OGImage renders an OpenGraph preview image.
func (c *Composer) OGImage(opts OGOptions) ([]byte, error) {
	return c.Compose(OGRequest(opts))
}

// CanvasTestRequest is a 200x200 white square with "Awesome!" in 30px Impact.
func CanvasTestRequest() ImageRequest {
	spec, _ := fonts.ParseCSS("30px Impact")
	return ImageRequest{
		Width:      200,
		Height:     200,
		Background: color.White,
		Texts: []TextBlock{{
			Content: "Awesome!",
			Font:    spec,
			Color:   color.Black,
		}},
		Layout: layout.Config{
			Margins:          layout.Margins{InlineStart: 50, BlockStart: 100},
			LineHeightFactor: layout.DefaultLineHeightFactor,
		},
	}
}

// CanvasTest renders CanvasTestRequest.
func (c *Composer) CanvasTest() ([]byte, error) {
	return c.Compose(CanvasTestRequest())
}
