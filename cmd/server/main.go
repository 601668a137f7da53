package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"

	"leadhub/internal/app/di"
	"leadhub/internal/app/router"
	analyticshandler "leadhub/internal/feature/analytics/transport/handler"
	analyticsusecase "leadhub/internal/feature/analytics/usecase"
	authhandler "leadhub/internal/feature/auth/transport/handler"
	authusecase "leadhub/internal/feature/auth/usecase"
	leadhandler "leadhub/internal/feature/leads/transport/handler"
	leadusecase "leadhub/internal/feature/leads/usecase"
	"leadhub/internal/platform/config"
	jwtmw "leadhub/internal/platform/jwt"
	"leadhub/internal/platform/logging"
	platformredis "leadhub/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// エラー詳細は development のときだけレスポンスに含める（api.ServerError 参照）
	if cfg.App.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	stores, err := di.NewStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without shared rate limiting.", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := cfg.JWT.Secret
	if secret == "" {
		secret = uuid.NewString()
		slog.Warn("JWT_SECRET is not set. Using a random secret; tokens will not survive a restart.")
	}
	codec := jwtmw.NewCodec(secret, cfg.JWT.Expire)

	// Usecase
	authUC := authusecase.NewAuthUsecase(stores.Users, codec)
	leadUC := leadusecase.NewLeadUsecase(stores.Leads)
	dashboardUC := analyticsusecase.NewDashboardUsecase(stores.Stats)

	// ルータ生成
	r, err := router.NewRouter(router.Handlers{
		Auth:      authhandler.NewAuthHandler(authUC),
		Leads:     leadhandler.NewLeadHandler(leadUC),
		Analytics: analyticshandler.NewAnalyticsHandler(dashboardUC),
	}, router.Options{
		CORSOrigin:   cfg.Server.CORSOrigin,
		StaticDir:    cfg.Server.StaticDir,
		Verifier:     codec,
		Users:        stores.Users,
		LoginLimiter: di.NewLoginLimiter(rdb, cfg.RateLimit),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", srv.Addr, "env", cfg.App.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
