package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter は固定ウィンドウ方式（INCR + EXPIRE）でキーごとに制限します。
// カウンタはRedisにあるため、複数インスタンスで共有されます。
type RedisLimiter struct {
	client    redis.Cmdable
	limit     int64
	window    time.Duration
	namespace string
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter は window あたり limit 回まで許可するリミッターを生成します。
func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration, namespace string) *RedisLimiter {
	if namespace == "" {
		namespace = "ratelimit"
	}
	return &RedisLimiter{
		client:    client,
		limit:     int64(limit),
		window:    window,
		namespace: namespace,
	}
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("%s:%s", l.namespace, k)
}

// Allow はカウンタを1増やし、上限以下ならtrueを返します。
// 最初のINCRでのみEXPIREを設定するため、ウィンドウは最初のリクエストから始まります。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return count <= l.limit, nil
}
