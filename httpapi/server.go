// Package httpapi is the serving surface of the exposure-chat study: a small
// JSON API that a thin browser front end drives. It owns no domain logic;
// everything flows through exposure.Runner.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the gin engine for the study API.
type Server struct {
	Engine *gin.Engine
}

func NewServer(h *Handler, logger *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	registerRoutes(engine, h)
	return &Server{Engine: engine}
}

func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}

func registerRoutes(engine *gin.Engine, h *Handler) {
	api := engine.Group("/api")
	api.POST("/login", h.Login)

	authed := api.Group("")
	authed.Use(h.sessionRequired)
	authed.POST("/message", h.Message)
	authed.GET("/history", h.History)
	authed.GET("/plan", h.Plan)
	authed.GET("/prompt", h.Prompt)
	authed.GET("/log", h.DownloadLog)
	authed.POST("/logout", h.Logout)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
