// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadhub/internal/api"
	"leadhub/internal/feature/auth/transport/http/dto"
	"leadhub/internal/feature/auth/usecase"
	jwtmw "leadhub/internal/platform/jwt"
	"leadhub/internal/platform/validation"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンとユーザーを返します。
	Register(ctx context.Context, name, email, password string) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にトークンとユーザーを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は400 "User already exists"を返却
// - 成功時はトークンとユーザー付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		slog.Warn("register rejected: email exists", "email", req.Email, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, "User already exists")
		return
	case errors.Is(err, usecase.ErrNameRequired):
		api.Fail(c, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, usecase.ErrWeakPassword):
		api.Fail(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	default:
		api.ServerError(c, "Server error during registration", err)
		return
	}

	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	api.OK(c, http.StatusCreated, "User registered successfully", dto.AuthRes{
		Token: res.Token,
		User:  dto.NewUserRes(res.User),
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			api.Fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		api.ServerError(c, "Server error during login", err)
		return
	}

	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	api.OK(c, http.StatusOK, "Login successful", dto.AuthRes{
		Token: res.Token,
		User:  dto.NewUserRes(res.User),
	})
}

// Me は認証済みユーザーのプロフィールを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}
	api.OK(c, http.StatusOK, "", dto.NewUserRes(user))
}
