package middlewares

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sbilibin2017/dnd-connect/internal/logger"
)

//go:generate mockgen -source=ratelimit.go -destination=mock_ratelimit.go -package=middlewares

// RateLimiter counts hits for a key inside a fixed window.
type RateLimiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitMiddleware rejects callers that exceed limit requests per window.
// Authenticated callers are keyed by user id, anonymous ones by remote IP.
// Counter storage failures let the request through.
func RateLimitMiddleware(limiter RateLimiter, scope string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := scope + ":" + clientKey(r)

			count, err := limiter.Hit(ctx, key, window)
			if err != nil {
				logger.Log.Errorw("rate limiter unavailable", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > limit {
				logger.Log.Warnw("rate limit exceeded", "key", key, "count", count, "limit", limit)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests, please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
