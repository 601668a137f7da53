package ratelimiter

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadhub/internal/api"
)

const msgTooManyRequests = "Too many requests, please try again later"

// Middleware はクライアントIPとルートをキーに制限し、超過時は429を返します。
// リミッターのエラー（Redis障害など）ではリクエストを通します。
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()
		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		if !ok {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse(msgTooManyRequests))
			return
		}
		c.Next()
	}
}
