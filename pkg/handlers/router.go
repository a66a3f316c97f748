package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
)

type RouterConfig struct {
	AllowOrigins []string
}

// NewRouter wires middleware and the video routes onto a fresh engine.
func NewRouter(h *Handler, cfg RouterConfig, logger log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestIDMiddleware(),
		AccessLogMiddleware(logger),
		RecoveryMiddleware(logger),
		cors.New(corsConfig(cfg.AllowOrigins)),
	)

	r.GET("/ping", h.Ping)

	r.GET("/videos", h.ListVideos)
	r.GET("/videos/", h.ListVideos)
	r.GET("/videos/:id", h.GetVideo)
	r.POST("/videos", h.CreateVideo)
	r.PUT("/videos/:id", h.UpdateVideo)
	r.DELETE("/videos/:id", h.DeleteVideo)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
