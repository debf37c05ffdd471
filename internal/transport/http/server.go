package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairlink-server/internal/config"
	"github.com/vovakirdan/pairlink-server/internal/core"
	"github.com/vovakirdan/pairlink-server/internal/store"
)

// NewServer builds the HTTP server: health, the read-only status
// surface, and the WebSocket upgrade endpoint.
func NewServer(hub *core.Hub, guard *core.ConnectionGuard, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	status := NewStatusHandlers(hub, st, logger)
	api := router.Group("/api")
	api.GET("/status", status.Status)
	api.GET("/history", status.History)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, guard, cfg.MaxGameStateSize, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
