// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthRes は死活監視のレスポンスです。DBには問い合わせません。
type HealthRes struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health は GET/HEAD /api/health を処理します。プローブ結果がキャッシュされないよう no-store を付けます。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, HealthRes{Status: "ok", Message: "Server is running"})
}
