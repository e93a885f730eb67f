// Package web exposes the transcript resolver over HTTP for collaborators
// that prefer a daemon to an in-process call.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linksum/internal/transcript"
	"linksum/web/handlers"
)

// Server hosts the resolution API.
type Server struct {
	engine *gin.Engine
	addr   string
}

// NewServer builds the HTTP surface around an already-wired resolver.
func NewServer(addr string, resolver *transcript.Resolver, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/api/resolve", handlers.Resolve(resolver, logger))

	return &Server{engine: engine, addr: addr}
}

// Start blocks serving requests until the listener fails.
func (s *Server) Start() error {
	return s.engine.Run(s.addr)
}
