package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/ogcanvas/internal/api"
	"github.com/youruser/ogcanvas/internal/config"
	"github.com/youruser/ogcanvas/internal/fonts"
	imagepkg "github.com/youruser/ogcanvas/internal/image"
	"github.com/youruser/ogcanvas/internal/util"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	reg := fonts.NewRegistry()
	if cfg.FontDir != "" {
		// best-effort: the Go fonts still cover every family
		n, err := reg.LoadDir(cfg.FontDir)
		if err != nil {
			log.Println("Warning: failed to load fonts:", err)
		}
		log.Printf("loaded %d fonts from %s", n, cfg.FontDir)
	}

	h := api.NewHandler(imagepkg.NewComposer(reg), util.NewFetcher(cfg.FetchTimeout, cfg.MaxImageBytes))
	r := gin.Default()
	api.RegisterRoutes(r, h)

	log.Println("starting server on http://localhost:" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
