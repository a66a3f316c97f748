package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// RequestIDMiddleware propagates X-Request-ID, minting one when absent.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// AccessLogMiddleware writes one line per request.
func AccessLogMiddleware(logger log.Logger) gin.HandlerFunc {
	helper := log.NewHelper(log.With(logger, "module", "http"))
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		helper.Infow(
			"msg", "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"request_id", RequestID(c),
		)
	}
}

// RecoveryMiddleware turns a panic into a plain-text 500.
func RecoveryMiddleware(logger log.Logger) gin.HandlerFunc {
	helper := log.NewHelper(log.With(logger, "module", "http"))
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		helper.Errorw(
			"msg", "panic recovered",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", RequestID(c),
			"panic", recovered,
		)
		c.String(http.StatusInternalServerError, "unexpected error")
		c.Abort()
	})
}
