package ratelimit

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Truella/Framez/internal/shared/httpx"
)

type Limiter struct {
	R   *redis.Client
	now func() time.Time
}

func New(r *redis.Client) *Limiter { return &Limiter{R: r, now: time.Now} }

// windowKey names the counter for the fixed window containing now. Every hit
// in the same window shares one key, so later hits never extend it.
func windowKey(key string, now time.Time, window time.Duration) string {
	start := now.UnixNano() / int64(window)
	return fmt.Sprintf("rl:%s:%d", key, start)
}

// AllowFixed counts hits on key within the current fixed window.
func (l *Limiter) AllowFixed(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	k := windowKey(key, l.now(), window)
	pipe := l.R.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

// LimitHTTP rejects requests over limit per key. Limiter outages let traffic
// through.
func (l *Limiter) LimitHTTP(limit int64, window time.Duration, keyFn func(*http.Request) (string, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := keyFn(r)
		if err != nil || key == "" {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrUnauthorized, "missing_user")
			return
		}
		ok, n, e := l.AllowFixed(r.Context(), key, limit, window)
		if e != nil {
			log.Printf("[ratelimit] %s: %v", key, e)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			httpx.WriteError(w, http.StatusTooManyRequests,
				fmt.Errorf("rate limit exceeded (count=%d, limit=%d)", n, limit),
				"rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ByUser keys limits by the authenticated user and request pattern.
func ByUser(r *http.Request) (string, error) {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return "", err
	}
	return uid + ":" + r.Pattern, nil
}
