package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// RequestsPerMinute is both the refill rate and the burst per key.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// KeyFunc defaults to IPBasedKey.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// RateLimit answers 429 once a key has spent its token bucket. Idle keys
// are dropped until ctx is done.
func RateLimit(ctx context.Context, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	buckets := newBuckets(cfg.RequestsPerMinute, time.Now)
	go buckets.evictLoop(ctx, 5*time.Minute)

	return func(c *gin.Context) {
		if !buckets.allow(cfg.KeyFunc(c)) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// EmailBasedKey keys on client IP plus the submitted email, limiting
// password guessing against one account.
func EmailBasedKey(c *gin.Context) string {
	return c.ClientIP() + "|" + c.PostForm("email")
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type buckets struct {
	mu    sync.Mutex
	byKey map[string]*bucket
	every rate.Limit
	burst int
	now   func() time.Time
}

func newBuckets(perMinute int, now func() time.Time) *buckets {
	return &buckets{
		byKey: make(map[string]*bucket),
		every: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
		now:   now,
	}
}

func (b *buckets) allow(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{lim: rate.NewLimiter(b.every, b.burst)}
		b.byKey[key] = bk
	}
	bk.seen = now
	return bk.lim.AllowN(now, 1)
}

// evict drops keys idle for longer than a full refill.
func (b *buckets) evict() {
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff := b.now().Add(-time.Minute)
	for key, bk := range b.byKey {
		if bk.seen.Before(cutoff) {
			delete(b.byKey, key)
		}
	}
}

func (b *buckets) evictLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.evict()
		}
	}
}
