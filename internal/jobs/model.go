package jobs

import (
	"time"

	imagepkg "github.com/youruser/ogcanvas/internal/image"
)

// Job is one OpenGraph image to render in a batch.
type Job struct {
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	Background      string          `json:"background"` // local path or http(s) URL
	BackgroundColor string          `json:"background_color"`
	TextColor       string          `json:"text_color"`
	QRText          string          `json:"qr_text"`
	Format          imagepkg.Format `json:"format"`
}

// Result reports where a job was written, or why it failed.
type Result struct {
	Job  Job
	Path string
	Err  error
}
