package api

import (
	"fmt"

	"github.com/youruser/ogcanvas/internal/fonts"
	imagepkg "github.com/youruser/ogcanvas/internal/image"
	"github.com/youruser/ogcanvas/internal/layout"
)

const defaultFont = "16px go"

// ogRequest is the body of POST /api/og; GET /api/og fills the same fields
// from the query string. Byte fields are base64 in JSON.
type ogRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Width           *int   `json:"width"`
	Height          *int   `json:"height"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	BackgroundURL   string `json:"background_url"`
	Background      []byte `json:"background"`
	LogoURL         string `json:"logo_url"`
	Logo            []byte `json:"logo"`
	QRText          string `json:"qr_text"`
	Format          string `json:"format"`
	FinalLine       string `json:"final_line"`
}

func (r ogRequest) options() (imagepkg.OGOptions, error) {
	w, h := imagepkg.OGWidth, imagepkg.OGHeight
	if r.Width != nil {
		w = *r.Width
	}
	if r.Height != nil {
		h = *r.Height
	}
	if w <= 0 || h <= 0 {
		return imagepkg.OGOptions{}, fmt.Errorf("%w: %dx%d", imagepkg.ErrInvalidDimensions, w, h)
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return imagepkg.OGOptions{}, err
	}
	bg, err := imagepkg.ParseColor(r.BackgroundColor)
	if err != nil {
		return imagepkg.OGOptions{}, badRequest{err}
	}
	fg, err := imagepkg.ParseColor(r.TextColor)
	if err != nil {
		return imagepkg.OGOptions{}, badRequest{err}
	}
	return imagepkg.OGOptions{
		Title:           r.Title,
		Description:     r.Description,
		Date:            date,
		Width:           w,
		Height:          h,
		Background:      r.Background,
		BackgroundColor: bg,
		TextColor:       fg,
		Logo:            r.Logo,
		QRText:          r.QRText,
		Format:          imagepkg.Format(r.Format),
		FinalLine:       layout.ParseFinalLineMode(r.FinalLine),
	}, nil
}

// composeRequest is the body of POST /api/compose.
type composeRequest struct {
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	BackgroundColor string         `json:"background_color"`
	Background      []byte         `json:"background"`
	BackgroundURL   string         `json:"background_url"`
	Logo            []byte         `json:"logo"`
	QRText          string         `json:"qr_text"`
	Texts           []textRequest  `json:"texts"`
	Layout          *layoutRequest `json:"layout"`
	Format          string         `json:"format"`
}

type textRequest struct {
	Content string          `json:"content"`
	Font    string          `json:"font"` // canvas shorthand, e.g. "bold 48px go"
	Color   string          `json:"color"`
	Margins *layout.Margins `json:"margins"`
}

// layoutRequest overrides layout.DefaultConfig field by field.
type layoutRequest struct {
	Margins          *layout.Margins `json:"margins"`
	Padding          *float64        `json:"padding"`
	LineHeightFactor *float64        `json:"line_height_factor"`
	LineHeight       float64         `json:"line_height"`
	BlockGap         *float64        `json:"block_gap"`
	LogoHeight       float64         `json:"logo_height"`
	FinalLine        string          `json:"final_line"`
}

func (l *layoutRequest) config() layout.Config {
	cfg := layout.DefaultConfig()
	if l == nil {
		return cfg
	}
	if l.Margins != nil {
		cfg.Margins = *l.Margins
	}
	if l.Padding != nil {
		cfg.Padding = *l.Padding
	}
	if l.LineHeightFactor != nil {
		cfg.LineHeightFactor = *l.LineHeightFactor
	}
	if l.BlockGap != nil {
		cfg.BlockGap = *l.BlockGap
	}
	cfg.LineHeight = l.LineHeight
	cfg.LogoHeight = l.LogoHeight
	cfg.FinalLine = layout.ParseFinalLineMode(l.FinalLine)
	return cfg
}

func (r composeRequest) imageRequest() (imagepkg.ImageRequest, error) {
	bg, err := imagepkg.ParseColor(r.BackgroundColor)
	if err != nil {
		return imagepkg.ImageRequest{}, badRequest{err}
	}
	texts := make([]imagepkg.TextBlock, 0, len(r.Texts))
	for i, t := range r.Texts {
		f := t.Font
		if f == "" {
			f = defaultFont
		}
		spec, err := fonts.ParseCSS(f)
		if err != nil {
			return imagepkg.ImageRequest{}, badRequest{fmt.Errorf("texts[%d]: %w", i, err)}
		}
		col, err := imagepkg.ParseColor(t.Color)
		if err != nil {
			return imagepkg.ImageRequest{}, badRequest{fmt.Errorf("texts[%d]: %w", i, err)}
		}
		texts = append(texts, imagepkg.TextBlock{
			Content: t.Content,
			Font:    spec,
			Color:   col,
			Margins: t.Margins,
		})
	}
	return imagepkg.ImageRequest{
		Width:           r.Width,
		Height:          r.Height,
		Background:      bg,
		BackgroundImage: r.Background,
		Logo:            r.Logo,
		QRText:          r.QRText,
		Texts:           texts,
		Layout:          r.Layout.config(),
		Format:          imagepkg.Format(r.Format),
	}, nil
}
