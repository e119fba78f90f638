package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"dormhop/backend/pkg/response"
)

// RateCounter shared sliding-window counter
type RateCounter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// local fallback buckets are swept once the table grows past this
const maxLocalBuckets = 10000

type localLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*bucket
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		buckets: make(map[string]*bucket),
	}
}

func (l *localLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxLocalBuckets {
			l.sweep(now)
		}
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets idle long enough to have refilled
func (l *localLimiter) sweep(now time.Time) {
	idle := time.Duration(float64(l.burst) / float64(l.limit) * float64(time.Second))
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(l.buckets, k)
		}
	}
}

// RateLimit limits each client IP to limit requests per window and route.
// It counts in Redis when counter is set and falls back to an in-process
// token bucket when counter is nil or failing.
func RateLimit(counter RateCounter, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())

		allowed := false
		counted := false
		if counter != nil {
			ok, err := counter.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err == nil {
				allowed, counted = ok, true
			}
		}
		if !counted {
			allowed = local.allow(key)
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
