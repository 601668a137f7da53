// Package handler はanalyticsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadhub/internal/api"
	"leadhub/internal/feature/analytics/domain/entity"
	"leadhub/internal/feature/analytics/transport/http/dto"
	jwtmw "leadhub/internal/platform/jwt"
)

// DashboardUsecase はダッシュボード集計のユースケースを定義します。
type DashboardUsecase interface {
	Dashboard(ctx context.Context, owner string) (*entity.Dashboard, error)
}

// AnalyticsHandler は集計APIのHTTPリクエストを処理します。
type AnalyticsHandler struct {
	uc DashboardUsecase
}

// NewAnalyticsHandler はAnalyticsHandlerの新しいインスタンスを生成します。
func NewAnalyticsHandler(uc DashboardUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Dashboard は認証ユーザーのリード集計を返します。
//
// GET /api/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	d, err := h.uc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		api.ServerError(c, "Server error while fetching analytics", err)
		return
	}
	api.OK(c, http.StatusOK, "", dto.NewDashboardRes(d))
}
