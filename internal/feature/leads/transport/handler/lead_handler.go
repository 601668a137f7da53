// Package handler はleadsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadhub/internal/api"
	"leadhub/internal/feature/leads/domain/entity"
	"leadhub/internal/feature/leads/transport/http/dto"
	"leadhub/internal/feature/leads/usecase"
	jwtmw "leadhub/internal/platform/jwt"
	"leadhub/internal/platform/validation"
)

// LeadUsecase はリード操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LeadUsecase interface {
	Create(ctx context.Context, owner string, in usecase.LeadInput) (*entity.Lead, error)
	GetByID(ctx context.Context, owner, id string) (*entity.Lead, error)
	Update(ctx context.Context, owner, id string, in usecase.LeadInput) (*entity.Lead, error)
	Delete(ctx context.Context, owner, id string) error
	ListLeads(ctx context.Context, owner string, q usecase.ListQuery) (*usecase.LeadPage, error)
}

// RegisterValidators はリードの列挙値バリデーター（leadstatus / leadsource）をginに登録します。
func RegisterValidators() error {
	return validation.Setup(map[string][]string{
		"leadstatus": entity.StatusNames(),
		"leadsource": entity.SourceNames(),
	})
}

// LeadHandler はリードのHTTPリクエストを処理します。
type LeadHandler struct {
	uc LeadUsecase
}

// NewLeadHandler は指定されたusecaseでLeadHandlerの新しいインスタンスを生成します。
func NewLeadHandler(uc LeadUsecase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// owner は認証済みユーザーIDを返します。AuthRequiredの後でのみ呼ばれる前提です。
func owner(c *gin.Context) (string, bool) {
	id, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authorized, no token provided")
	}
	return id, ok
}

// Create はリードを作成します。
//
// POST /api/leads
func (h *LeadHandler) Create(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	var req dto.LeadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create lead validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	lead, err := h.uc.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		h.fail(c, err, "Server error while creating lead")
		return
	}
	slog.Info("lead created", "lead_id", lead.ID, "user_id", userID)
	api.OK(c, http.StatusCreated, "Lead created successfully", dto.NewLeadRes(lead))
}

// List は検索・フィルタ・ソート・ページング付きでリードを返します。
//
// GET /api/leads?search=&status=&source=&sortBy=createdAt&sortOrder=desc&page=1&limit=10
func (h *LeadHandler) List(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	// 数値に変換できない場合は0となり、usecaseの既定値が使われる
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	q := usecase.NormalizeQuery(usecase.ListParams{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Source:    c.Query("source"),
		SortBy:    c.DefaultQuery("sortBy", string(usecase.SortByCreatedAt)),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		Limit:     limit,
	})

	res, err := h.uc.ListLeads(c.Request.Context(), userID, q)
	if err != nil {
		api.ServerError(c, "Server error while fetching leads", err)
		return
	}

	c.JSON(http.StatusOK, api.ListResponse{
		Success:    true,
		Count:      len(res.Items),
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Data:       dto.NewLeadList(res.Items),
	})
}

// Get は1件のリードを返します。
//
// GET /api/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	lead, err := h.uc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Server error while fetching lead")
		return
	}
	api.OK(c, http.StatusOK, "", dto.NewLeadRes(lead))
}

// Update はリードを部分更新します。空の項目は既存値を保持します。
//
// PUT /api/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	var req dto.LeadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update lead validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	lead, err := h.uc.Update(c.Request.Context(), userID, c.Param("id"), req.ToInput())
	if err != nil {
		h.fail(c, err, "Server error while updating lead")
		return
	}
	api.OK(c, http.StatusOK, "Lead updated successfully", dto.NewLeadRes(lead))
}

// Delete はリードを削除します。
//
// DELETE /api/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	userID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err, "Server error while deleting lead")
		return
	}
	slog.Info("lead deleted", "lead_id", c.Param("id"), "user_id", userID)
	api.OK(c, http.StatusOK, "Lead deleted successfully", nil)
}

// fail はusecaseのエラーをHTTPステータスに対応付けます。
func (h *LeadHandler) fail(c *gin.Context, err error, serverMsg string) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		api.Fail(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, usecase.ErrLeadNotFound):
		api.Fail(c, http.StatusNotFound, "Lead not found")
	default:
		api.ServerError(c, serverMsg, err)
	}
}
