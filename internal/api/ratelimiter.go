package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Health checks are never rate limited.
const healthPath = "/api/health"

type rateLimiter interface {
	Allow() bool
}

// retryHinter is implemented by limiters that know when the next token is due.
type retryHinter interface {
	RetryAfter() time.Duration
}

type limiterAdapter struct {
	limiter *rate.Limiter
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) *limiterAdapter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &limiterAdapter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *limiterAdapter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// RetryAfter is the refill interval of a single token.
func (l *limiterAdapter) RetryAfter() time.Duration {
	if l == nil || l.limiter == nil || l.limiter.Limit() <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / float64(l.limiter.Limit()))
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthPath || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", retryAfterHeader(limiter))
		writeError(w, http.StatusTooManyRequests, "Too many requests", "layout rate limit exceeded, please retry shortly")
	})
}

// retryAfterHeader renders whole seconds, never less than one.
func retryAfterHeader(limiter rateLimiter) string {
	seconds := 1.0
	if hinter, ok := limiter.(retryHinter); ok {
		seconds = math.Max(1, math.Ceil(hinter.RetryAfter().Seconds()))
	}
	return strconv.Itoa(int(seconds))
}
