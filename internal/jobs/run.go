// Package jobs renders batches of OpenGraph images described in CSV files.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	imagepkg "github.com/youruser/ogcanvas/internal/image"
	"github.com/youruser/ogcanvas/internal/util"
)

// Options control a batch run.
type Options struct {
	OutDir  string
	BaseDir string // resolves relative background paths
	Workers int
	Fetcher *util.Fetcher
}

// Run renders every job and writes it to OutDir/<name>.<ext>. Jobs run on at
// most Workers goroutines. Every job is attempted; the returned error joins
// the failures.
func Run(ctx context.Context, c *imagepkg.Composer, jobs []Job, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if err := util.EnsureDir(opts.OutDir); err != nil {
		return nil, err
	}

	results := make([]Result, len(jobs))
	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(jobs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = runOne(ctx, c, jobs[i], opts)
			}
		}()
	}
	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Job.Name, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func runOne(ctx context.Context, c *imagepkg.Composer, j Job, opts Options) Result {
	res := Result{Job: j}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if err := checkName(j.Name); err != nil {
		res.Err = err
		return res
	}
	b, err := Render(ctx, c, j, opts)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = filepath.Join(opts.OutDir, j.Name+"."+j.Format.Extension())
	if err := util.WriteFile(res.Path, b); err != nil {
		res.Err = err
		return res
	}
	log.Println("rendered", res.Path)
	return res
}

// Render renders j without writing it anywhere.
func Render(ctx context.Context, c *imagepkg.Composer, j Job, opts Options) ([]byte, error) {
	o, err := j.options(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.OGImage(o)
}

func (j Job) options(ctx context.Context, opts Options) (imagepkg.OGOptions, error) {
	o := imagepkg.OGOptions{
		Title:       j.Title,
		Description: j.Description,
		Date:        j.Date,
		Width:       j.Width,
		Height:      j.Height,
		QRText:      j.QRText,
		Format:      j.Format,
	}
	var err error
	if o.BackgroundColor, err = imagepkg.ParseColor(j.BackgroundColor); err != nil {
		return o, err
	}
	if o.TextColor, err = imagepkg.ParseColor(j.TextColor); err != nil {
		return o, err
	}
	if j.Background != "" {
		if o.Background, err = loadBackground(ctx, j.Background, opts); err != nil {
			return o, fmt.Errorf("background: %w", err)
		}
	}
	return o, nil
}

func loadBackground(ctx context.Context, src string, opts Options) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if opts.Fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for %s", src)
		}
		return imagepkg.DownloadImage(ctx, opts.Fetcher, src)
	}
	if !filepath.IsAbs(src) {
		src = filepath.Join(opts.BaseDir, src)
	}
	return os.ReadFile(src)
}
