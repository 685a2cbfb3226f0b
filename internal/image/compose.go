// Package imagepkg composes raster images from a background and wrapped text.
package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/ogcanvas/internal/fonts"
	"github.com/youruser/ogcanvas/internal/layout"
)

var (
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrDecode            = errors.New("cannot decode image")
)

const (
	MaxDimension      = 4096
	MaxFontSize       = MaxDimension / 4
	DefaultFontSize   = 16
	DefaultLogoHeight = 64
)

// TextBlock is one paragraph of text drawn onto the image.
type TextBlock struct {
	Content string
	Font    fonts.Spec
	Color   color.Color
	// Margins replace the request's margins for this block when set.
	Margins *layout.Margins
}

// ImageRequest describes one image. BackgroundImage, Logo and QRText are
// optional; Background defaults to white.
type ImageRequest struct {
	Width           int
	Height          int
	Background      color.Color
	BackgroundImage []byte
	Logo            []byte
	QRText          string
	Texts           []TextBlock
	Layout          layout.Config
	Format          Format
}

func (r ImageRequest) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, r.Width, r.Height)
	}
	if r.Width > MaxDimension || r.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidDimensions, r.Width, r.Height, MaxDimension)
	}
	if r.Layout.LogoHeight < 0 || r.Layout.LogoHeight > float64(r.Height) {
		return fmt.Errorf("%w: logo height %v outside 0..%d", ErrInvalidDimensions, r.Layout.LogoHeight, r.Height)
	}
	for i, t := range r.Texts {
		if t.Font.Size > MaxFontSize {
			return fmt.Errorf("%w: text block %d font size %v exceeds %d", ErrInvalidDimensions, i, t.Font.Size, MaxFontSize)
		}
	}
	return nil
}

// Composer renders ImageRequests. It is safe for concurrent use; each call
// works on its own surface.
type Composer struct {
	Fonts *fonts.Registry
}

func NewComposer(reg *fonts.Registry) *Composer {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	return &Composer{Fonts: reg}
}

var defaultComposer = NewComposer(nil)

// Compose renders req with the built-in fonts.
func Compose(req ImageRequest) ([]byte, error) {
	return defaultComposer.Compose(req)
}

// Compose renders req and encodes it in req.Format.
func (c *Composer) Compose(req ImageRequest) ([]byte, error) {
	img, err := c.Render(req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := req.Format.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render paints req onto a new surface and returns it unencoded.
func (c *Composer) Render(req ImageRequest) (image.Image, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := req.Format.imaging(); err != nil {
		return nil, err
	}
	bg := req.Background
	if bg == nil {
		bg = color.White
	}
	canvas := imaging.New(req.Width, req.Height, bg)

	if len(req.BackgroundImage) > 0 {
		src, err := decode(req.BackgroundImage)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		canvas = pasteFit(canvas, src)
	}

	cfg := req.Layout
	hasLogo := len(req.Logo) > 0
	if hasLogo {
		if cfg.LogoHeight <= 0 {
			cfg.LogoHeight = DefaultLogoHeight
		}
		logo, err := decode(req.Logo)
		if err != nil {
			return nil, fmt.Errorf("logo: %w", err)
		}
		logo = imaging.Resize(logo, 0, int(cfg.LogoHeight), imaging.Lanczos)
		canvas = imaging.Paste(canvas, logo, image.Pt(int(cfg.Margins.InlineStart), int(cfg.Margins.BlockStart)))
	}

	if req.QRText != "" {
		size := min(req.Width, req.Height) / 4
		qr, err := GenerateQRImage(req.QRText, size)
		if err != nil {
			return nil, fmt.Errorf("qr badge: %w", err)
		}
		b := qr.Bounds()
		at := image.Pt(
			req.Width-int(cfg.Margins.InlineEnd)-b.Dx(),
			req.Height-int(cfg.Margins.BlockEnd)-b.Dy(),
		)
		canvas = imaging.Paste(canvas, qr, at)
	}

	if len(req.Texts) == 0 {
		return canvas, nil
	}

	dc := gg.NewContextForImage(canvas)
	y := cfg.TextTop(hasLogo)
	for i, block := range req.Texts {
		next, err := c.drawBlock(dc, cfg, block, float64(req.Width), y)
		if err != nil {
			return nil, fmt.Errorf("text block %d: %w", i, err)
		}
		y = next
	}
	return dc.Image(), nil
}

// drawBlock paints one block starting at baseline y and returns the baseline
// where the next block starts.
func (c *Composer) drawBlock(dc *gg.Context, cfg layout.Config, block TextBlock, surfaceWidth, y float64) (float64, error) {
	spec := block.Font
	if spec.Size <= 0 {
		spec.Size = DefaultFontSize
	}
	face, err := c.Fonts.Face(spec)
	if err != nil {
		return 0, err
	}
	dc.SetFontFace(face)
	if block.Color != nil {
		dc.SetColor(block.Color)
	} else {
		dc.SetColor(color.Black)
	}

	margins := cfg.Margins
	if block.Margins != nil {
		margins = *block.Margins
	}
	lh := cfg.LineHeightFor(spec.Size)
	p := layout.Paragraph{
		Text:       block.Content,
		MaxWidth:   cfg.MaxWidthWithin(surfaceWidth, margins),
		LineHeight: lh,
		StartY:     y,
		FinalLine:  cfg.FinalLine,
	}
	last := y
	for line := range p.Lines(dc) {
		dc.DrawString(line.Text, margins.InlineStart, line.BaselineY)
		last = line.BaselineY
	}
	return last + lh + cfg.BlockGap, nil
}

func decode(b []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
