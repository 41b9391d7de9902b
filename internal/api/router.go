package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the handler's routes. allowOrigins feeds CORS for
// browser clients.
func NewRouter(log *slog.Logger, h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		config.AllowAllOrigins = true
		config.AllowOrigins = nil
	}
	r.Use(cors.New(config))

	v1 := r.Group("/v1", LoggingMiddleware(log))
	{
		v1.GET("/status", h.Status)
		v1.GET("/catalog", h.Catalog)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.CreateSession)
			sessions.GET("/:id", h.GetSession)
			sessions.DELETE("/:id", h.DeleteSession)
			sessions.POST("/:id/start", h.Start)
			sessions.POST("/:id/reveal", h.Reveal)
			sessions.POST("/:id/advance", h.Advance)
			sessions.POST("/:id/restart", h.Restart)
			sessions.POST("/:id/submit", h.Submit)
		}
	}
	return r
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = fmt.Sprintf("%s?%s", path, raw)
		}
		status := c.Writer.Status()

		log.Info(fmt.Sprintf("%s %s", c.Request.Method, path),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
		for _, ginErr := range c.Errors {
			log.Error("HTTP request error", "error", ginErr.Err, "status", status, "path", path)
		}
	}
}
