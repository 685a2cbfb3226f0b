package imagepkg

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitRect scales an imgW x imgH image to cover one axis of a w x h surface
// and centres it on the other, preserving aspect ratio.
func FitRect(imgW, imgH, w, h int) image.Rectangle {
	if imgW <= 0 || imgH <= 0 {
		return image.Rect(0, 0, w, h)
	}
	imageAspect := float64(imgW) / float64(imgH)
	canvasAspect := float64(w) / float64(h)
	if imageAspect > canvasAspect {
		sh := max(int(math.Round(float64(w)/imageAspect)), 1)
		y := (h - sh) / 2
		return image.Rect(0, y, w, y+sh)
	}
	sw := max(int(math.Round(float64(h)*imageAspect)), 1)
	x := (w - sw) / 2
	return image.Rect(x, 0, x+sw, h)
}

func pasteFit(canvas *image.NRGBA, src image.Image) *image.NRGBA {
	sb := src.Bounds()
	cb := canvas.Bounds()
	r := FitRect(sb.Dx(), sb.Dy(), cb.Dx(), cb.Dy())
	scaled := imaging.Resize(src, r.Dx(), r.Dy(), imaging.Lanczos)
	return imaging.Paste(canvas, scaled, r.Min)
}
