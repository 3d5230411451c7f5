package hrest

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"banking-service/pkg/response"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Block  time.Duration
	Prefix string
}

// RateLimiter counts requests per client IP in fixed windows. A client that
// exceeds the limit is blocked for cfg.Block. Redis errors fail open.
func RateLimiter(rdb redis.UniversalClient, cfg RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := cfg.Prefix + ":ip:" + clientIP(r)
			blockKey := key + ":blocked"

			if blocked, _ := rdb.Get(ctx, blockKey).Result(); blocked == "1" {
				ttl, _ := rdb.TTL(ctx, blockKey).Result()
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests. Try again in "+ttl.String())
				return
			}

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}

			if count > int64(cfg.Limit) {
				rdb.Set(ctx, blockKey, "1", cfg.Block)
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Block.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests. Blocked for "+cfg.Block.String())
				return
			}

			ttl, _ := rdb.TTL(ctx, key).Result()
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-int(count)))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
