package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Format names an output encoding. The empty Format encodes PNG.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

const jpegQuality = 90

var ErrFormat = errors.New("unsupported output format")

func (f Format) imaging() (imaging.Format, error) {
	if f == "" {
		return imaging.PNG, nil
	}
	out, err := imaging.FormatFromExtension(strings.ToLower(string(f)))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrFormat, string(f), err)
	}
	return out, nil
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	out, err := f.imaging()
	if err != nil {
		return "png"
	}
	return strings.ToLower(out.String())
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	return "image/" + f.Extension()
}

// Encode writes img to w in format f.
func (f Format) Encode(w io.Writer, img image.Image) error {
	out, err := f.imaging()
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, out, imaging.JPEGQuality(jpegQuality))
}
