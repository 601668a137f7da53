package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leadhub/internal/api"
	"leadhub/internal/feature/auth/domain/entity"
	"leadhub/internal/feature/auth/usecase"
)

const (
	// ContextUserID はgin.Contextに格納される認証済みユーザーIDのキーです。
	ContextUserID = "userID"
	// ContextUser はgin.Contextに格納される認証済みユーザーのキーです。
	ContextUser = "user"

	bearerPrefix = "Bearer "
)

const (
	msgNoToken      = "Not authorized, no token provided"
	msgTokenFailed  = "Not authorized, token failed"
	msgUserNotFound = "User not found"
)

// TokenVerifier はトークンを検証しユーザーIDを返します。
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that validates bearer tokens, loads
// the owning user and restricts access to authenticated users only.
// Every failure aborts with 401.
func AuthRequired(verifier TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorizationヘッダーの取得
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse(msgNoToken))
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse(msgNoToken))
			return
		}

		// 2. 署名と有効期限の検証
		userID, err := verifier.Verify(tokenStr)
		if err != nil {
			slog.Warn("token verification failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse(msgTokenFailed))
			return
		}

		// 3. ユーザーの存在確認
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				slog.Warn("token subject not found", "user_id", userID, "remote_addr", c.ClientIP())
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse(msgUserNotFound))
				return
			}
			slog.Error("failed to load token subject", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse(msgTokenFailed))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID set by AuthRequired.
func CurrentUserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}

// CurrentUser returns the authenticated user set by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
