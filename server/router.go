package server

import (
	"net/http"
	"path/filepath"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP surface: health, the websocket endpoint, and
// the static client bundle when a directory is configured.
func NewRouter(h *Handler, allowedOrigins []string, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.HealthHandler)

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	r.GET("/ws", h.WebsocketHandler)

	if staticDir != "" {
		r.Static("/assets", filepath.Join(staticDir, "assets"))
		r.NoRoute(func(ctx *gin.Context) {
			ctx.File(filepath.Join(staticDir, "index.html"))
		})
	}

	return r
}
