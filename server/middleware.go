package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-gateway/apperr"
	"video-gateway/constant"
)

// accessGate short-circuits gated routes when the shared secret is absent or
// wrong. Applied per route group, not globally: listing and health stay open.
func accessGate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(constant.AccessKeyHeader)
		if key == "" {
			key = c.Query(constant.AccessKeyParam)
		}
		if key == "" || key != secret {
			_ = c.Error(apperr.Unauthorized("invalid access key"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func cors(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+constant.AccessKeyHeader)
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// errorMapper translates errors attached by handlers into the uniform
// {"error": "<message>"} body. Backend causes are logged here and never
// returned to the client.
func errorMapper() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		status := http.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.KindInvalid:
			status = http.StatusBadRequest
		case apperr.KindUnauthorized:
			status = http.StatusUnauthorized
		default:
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		}

		c.JSON(status, gin.H{"error": apperr.Message(err)})
	}
}

func requestLogger(ctx context.Context) gin.HandlerFunc {
	logger := zerolog.Ctx(ctx)
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}
