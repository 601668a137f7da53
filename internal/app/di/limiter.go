package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"leadhub/internal/platform/config"
	"leadhub/internal/shared/ratelimiter"
)

const loginWindow = time.Minute

// NewLoginLimiter は認証エンドポイント用のリミッターを生成します。
// Redisが利用可能ならRedis実装を、そうでなければプロセス内の実装を返します。
// 上限が0の場合はnilを返し、制限を無効にします。
func NewLoginLimiter(rdb *redis.Client, cfg config.RateLimitConfig) ratelimiter.Limiter {
	if cfg.LoginPerMinute == 0 {
		slog.Info("login rate limiting disabled")
		return nil
	}
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, cfg.LoginPerMinute, loginWindow, "login")
	}
	slog.Warn("Redis unavailable. Using in-process login rate limiter.")
	return ratelimiter.NewMemoryLimiter(cfg.LoginPerMinute, loginWindow)
}
