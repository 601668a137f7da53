// Package ratelimiter はクライアント単位のリクエスト頻度制限を提供します。
package ratelimiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter はキー（通常はクライアントIP）ごとにリクエストを許可するか判定します。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter はプロセス内のトークンバケットでキーごとに制限します。
// Redisが設定されていない場合の代替で、複数インスタンス間では共有されません。
type MemoryLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter は window あたり limit 回まで許可するリミッターを生成します。
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	return &MemoryLimiter{
		limiters: make(map[string]*entry),
		rate:     rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     10 * window,
		now:      time.Now,
	}
}

// Allow はキーのバケットからトークンを1つ消費できればtrueを返します。エラーは返しません。
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	l.pruneLocked(now)
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastAccess = now
	limiter := e.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1), nil
}

// pruneLocked は idle 以上アクセスのないキーを削除します。idle ごとに最大1回だけ走査します。
func (l *MemoryLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < l.idle {
		return
	}
	l.lastPrune = now
	threshold := now.Add(-l.idle)
	for k, e := range l.limiters {
		if e.lastAccess.Before(threshold) {
			delete(l.limiters, k)
		}
	}
}

// Len は保持しているキーの数を返します。
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
