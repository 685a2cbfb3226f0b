// Package api exposes the image composer over HTTP.
package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/ogcanvas/internal/image"
	"github.com/youruser/ogcanvas/internal/util"
)

// errFetch marks failures to download a remote image.
var errFetch = errors.New("fetch failed")

// Handler serves image requests with a shared composer.
type Handler struct {
	Composer *imagepkg.Composer
	Fetcher  *util.Fetcher
}

func NewHandler(c *imagepkg.Composer, f *util.Fetcher) *Handler {
	return &Handler{Composer: c, Fetcher: f}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) canvasTest(c *gin.Context) {
	b, err := h.Composer.CanvasTest()
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, imagepkg.FormatPNG.ContentType(), b)
}

// ogQuery renders an OpenGraph image from query parameters.
func (h *Handler) ogQuery(c *gin.Context) {
	req := ogRequest{
		Title:           c.Query("title"),
		Description:     c.Query("description"),
		Date:            c.Query("date"),
		BackgroundColor: c.Query("bg"),
		TextColor:       c.Query("color"),
		BackgroundURL:   c.Query("bg_url"),
		QRText:          c.Query("qr"),
		Format:          c.Query("format"),
		FinalLine:       c.Query("final_line"),
	}
	w, err := intQuery(c, "width", imagepkg.OGWidth)
	if err != nil {
		fail(c, err)
		return
	}
	hgt, err := intQuery(c, "height", imagepkg.OGHeight)
	if err != nil {
		fail(c, err)
		return
	}
	req.Width, req.Height = &w, &hgt
	h.renderOG(c, req)
}

func (h *Handler) ogJSON(c *gin.Context) {
	var req ogRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.renderOG(c, req)
}

func (h *Handler) renderOG(c *gin.Context, req ogRequest) {
	opts, err := req.options()
	if err != nil {
		fail(c, err)
		return
	}
	if opts.Background, err = h.fetchOr(c, req.BackgroundURL, opts.Background); err != nil {
		fail(c, err)
		return
	}
	if opts.Logo, err = h.fetchOr(c, req.LogoURL, opts.Logo); err != nil {
		fail(c, err)
		return
	}
	b, err := h.Composer.OGImage(opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, opts.Format.ContentType(), b)
}

func (h *Handler) compose(c *gin.Context) {
	var req composeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ir, err := req.imageRequest()
	if err != nil {
		fail(c, err)
		return
	}
	if ir.BackgroundImage, err = h.fetchOr(c, req.BackgroundURL, ir.BackgroundImage); err != nil {
		fail(c, err)
		return
	}
	b, err := h.Composer.Compose(ir)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, ir.Format.ContentType(), b)
}

// fetchOr downloads url when set, otherwise returns fallback unchanged.
func (h *Handler) fetchOr(c *gin.Context, url string, fallback []byte) ([]byte, error) {
	if url == "" {
		return fallback, nil
	}
	b, err := imagepkg.DownloadImage(c.Request.Context(), h.Fetcher, url)
	if err != nil {
		if errors.Is(err, imagepkg.ErrDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errFetch, err)
	}
	return b, nil
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size, err := intQuery(c, "size", 256)
	if err != nil || size <= 0 || size > imagepkg.MaxDimension {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	s, ok := c.GetQuery(key)
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest{fmt.Errorf("%s: %w", key, err)}
	}
	return v, nil
}

// badRequest wraps input errors that map to 400.
type badRequest struct{ error }

func (b badRequest) Unwrap() error { return b.error }

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br), errors.Is(err, imagepkg.ErrInvalidDimensions), errors.Is(err, imagepkg.ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, imagepkg.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Println("render error:", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, badRequest{fmt.Errorf("date: %w", err)}
	}
	return t, nil
}
