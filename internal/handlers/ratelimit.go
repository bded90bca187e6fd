package handlers

import (
	"net"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	rps      float64
	burst    int
	limiters sync.Map // map[string]*rate.Limiter
}

// NewRateLimiter returns nil when rps is not positive, which disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return &RateLimiter{rps: rps, burst: burst}
}

func (l *RateLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !l.Allow(clientKey(ctx.RemoteAddr())) {
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(ctx)
	}
}

func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err == nil && host != "" {
		return host
	}
	if remoteAddr != "" {
		return remoteAddr
	}
	return "unknown"
}
