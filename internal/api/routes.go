package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/canvas-test", h.canvasTest)
		api.GET("/og", h.ogQuery)
		api.POST("/og", h.ogJSON)
		api.POST("/compose", h.compose)
		api.GET("/qr", qrHandler)
	}
}
