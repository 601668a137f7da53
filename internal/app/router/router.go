// Package router はHTTPルーティングとミドルウェア構成を定義します。
package router

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"leadhub/internal/api"
	analyticshandler "leadhub/internal/feature/analytics/transport/handler"
	authhandler "leadhub/internal/feature/auth/transport/handler"
	leadhandler "leadhub/internal/feature/leads/transport/handler"
	healthhandler "leadhub/internal/platform/http/handler"
	"leadhub/internal/platform/http/middleware"
	jwtmw "leadhub/internal/platform/jwt"
	"leadhub/internal/shared/ratelimiter"
)

const msgRouteNotFound = "Route not found"

// Handlers はルーターに登録するフィーチャーハンドラーです。
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Leads     *leadhandler.LeadHandler
	Analytics *analyticshandler.AnalyticsHandler
}

// Options はルーター全体の設定です。
type Options struct {
	CORSOrigin string
	// StaticDir が空でなければ、/api 以外のGETでSPAを配信します。
	StaticDir string

	Verifier jwtmw.TokenVerifier
	Users    jwtmw.UserFinder

	// LoginLimiter がnilなら認証エンドポイントは制限しません。
	LoginLimiter ratelimiter.Limiter
}

func NewRouter(h Handlers, opts Options) (*gin.Engine, error) {
	// ハンドラーが参照する列挙値バリデーターはバインド前に登録が必要
	if err := leadhandler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		gin.CustomRecovery(recovery),
		cors.New(corsConfig(opts.CORSOrigin)),
	)

	apiGroup := r.Group("/api")

	// 認証不要
	// 導通確認用
	apiGroup.GET("/health", healthhandler.Health)
	apiGroup.HEAD("/health", healthhandler.Health)

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", throttled(opts.LoginLimiter, h.Auth.Register)...)
	authGroup.POST("/login", throttled(opts.LoginLimiter, h.Auth.Login)...)

	// 認証必須のルート
	gate := jwtmw.AuthRequired(opts.Verifier, opts.Users)
	authGroup.GET("/me", gate, h.Auth.Me)

	leads := apiGroup.Group("/leads", gate)
	{
		leads.POST("", h.Leads.Create)
		leads.GET("", h.Leads.List)
		leads.GET("/:id", h.Leads.Get)
		leads.PUT("/:id", h.Leads.Update)
		leads.DELETE("/:id", h.Leads.Delete)
	}

	analytics := apiGroup.Group("/analytics", gate)
	analytics.GET("/dashboard", h.Analytics.Dashboard)

	r.NoRoute(noRoute(opts.StaticDir))
	return r, nil
}

// throttled は limiter が設定されていればレート制限を前段に挟みます。
func throttled(limiter ratelimiter.Limiter, h gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{ratelimiter.Middleware(limiter), h}
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		// ワイルドカードとcredentialsは併用できない
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = strings.Split(origin, ",")
	}
	return cfg
}

func recovery(c *gin.Context, recovered any) {
	slog.Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path, "remote_addr", c.ClientIP())
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse("Server error"))
}

// noRoute は /api 配下の未定義ルートに404を返し、それ以外はSPAのファイルかindex.htmlを返します。
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if staticDir == "" || path == "/api" || strings.HasPrefix(path, "/api/") ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			api.Fail(c, http.StatusNotFound, msgRouteNotFound)
			return
		}

		// Clean で ".." を除去してから staticDir 配下に結合する
		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
