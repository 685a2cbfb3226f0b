package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/youruser/ogcanvas/internal/config"
	"github.com/youruser/ogcanvas/internal/fonts"
	imagepkg "github.com/youruser/ogcanvas/internal/image"
	"github.com/youruser/ogcanvas/internal/jobs"
	"github.com/youruser/ogcanvas/internal/util"
)

func main() {
	title := flag.String("title", "", "title text")
	description := flag.String("description", "", "description text")
	date := flag.String("date", "", "date shown as \"Month Year\" (YYYY-MM-DD)")
	width := flag.Int("width", imagepkg.OGWidth, "image width")
	height := flag.Int("height", imagepkg.OGHeight, "image height")
	bg := flag.String("bg", "", "background image path or URL")
	bgColor := flag.String("bg-color", "", "background colour, e.g. #ffffff")
	textColor := flag.String("color", "", "text colour, e.g. #000000")
	qr := flag.String("qr", "", "text encoded in a QR badge")
	out := flag.String("out", "og.png", "output file; the extension picks the format")
	fontDir := flag.String("fonts", "", "directory of .ttf files")
	batch := flag.String("batch", "", "CSV file or directory of CSV jobs")
	outDir := flag.String("outdir", "output", "output directory for -batch")
	workers := flag.Int("workers", 4, "parallel renders for -batch")
	canvasTest := flag.Bool("canvas-test", false, "render the 200x200 canvas test image")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	reg := fonts.NewRegistry()
	if *fontDir == "" {
		*fontDir = cfg.FontDir
	}
	if *fontDir != "" {
		if _, err := reg.LoadDir(*fontDir); err != nil {
			log.Fatalf("loading fonts: %v", err)
		}
	}
	composer := imagepkg.NewComposer(reg)
	fetcher := util.NewFetcher(cfg.FetchTimeout, cfg.MaxImageBytes)
	ctx := context.Background()

	switch {
	case *batch != "":
		if err := runBatch(ctx, composer, fetcher, *batch, *outDir, *workers); err != nil {
			log.Fatal(err)
		}
	case *canvasTest:
		b, err := composer.CanvasTest()
		if err != nil {
			log.Fatal(err)
		}
		if err := util.WriteFile(*out, b); err != nil {
			log.Fatal(err)
		}
		fmt.Println("wrote", *out)
	default:
		j := jobs.Job{
			Name:            "single",
			Title:           *title,
			Description:     *description,
			Width:           *width,
			Height:          *height,
			Background:      *bg,
			BackgroundColor: *bgColor,
			TextColor:       *textColor,
			QRText:          *qr,
			Format:          imagepkg.Format(strings.TrimPrefix(filepath.Ext(*out), ".")),
		}
		if *date != "" {
			d, err := time.Parse("2006-01-02", *date)
			if err != nil {
				log.Fatalf("-date: %v", err)
			}
			j.Date = d
		}
		if err := renderOne(ctx, composer, fetcher, j, *out); err != nil {
			log.Fatal(err)
		}
		fmt.Println("wrote", *out)
	}
}

func renderOne(ctx context.Context, c *imagepkg.Composer, f *util.Fetcher, j jobs.Job, out string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	b, err := jobs.Render(ctx, c, j, jobs.Options{BaseDir: wd, Fetcher: f})
	if err != nil {
		return err
	}
	return util.WriteFile(out, b)
}

func runBatch(ctx context.Context, c *imagepkg.Composer, f *util.Fetcher, src, outDir string, workers int) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	var list []jobs.Job
	base := filepath.Dir(src)
	if info.IsDir() {
		base = src
		list, err = jobs.LoadDir(src)
	} else {
		list, err = jobs.LoadCSV(src)
	}
	if err != nil {
		return err
	}
	results, err := jobs.Run(ctx, c, list, jobs.Options{OutDir: outDir, BaseDir: base, Workers: workers, Fetcher: f})
	ok := 0
	for _, r := range results {
		if r.Err == nil {
			ok++
		}
	}
	fmt.Printf("rendered %d/%d images into %s\n", ok, len(results), outDir)
	return err
}
