package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health", "/metrics"},
	}))

	r.Use(gin.Recovery())

	// The presentation layer is served from another origin.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/rss", handler.GetRSS)
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/state", handler.APIGetState)
		api.GET("/events", handler.APIStreamEvents)
		api.POST("/feeds", handler.APISubmitFeed)
		api.POST("/posts/:id/preview", handler.APIOpenPreview)
	}

	slog.Debug("API routes registered", "group", "/api")

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "RSS Reader",
			"version":     handler.version,
			"description": "RSS aggregator with per-feed polling and deduplication",
			"endpoints": map[string]string{
				"state":   "/api/state",
				"events":  "/api/events (server-sent events)",
				"submit":  "/api/feeds (POST {\"url\": ...})",
				"preview": "/api/posts/<id>/preview (POST)",
				"rss":     "/rss",
				"health":  "/health",
				"metrics": "/metrics",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
