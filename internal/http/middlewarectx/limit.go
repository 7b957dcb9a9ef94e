package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/metrics"
)

// Counter считает попадания в фиксированное окно.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit описывает одно ограничение частоты запросов.
type RateLimit struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

// RateLimitMiddleware ограничивает число запросов с одного IP за окно.
// При недоступности хранилища счётчиков запрос пропускается.
func RateLimitMiddleware(counter Counter, rl RateLimit, m *metrics.Metrics, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + rl.Name + ":" + clientIP(r)

			count, ttl, err := counter.Hit(r.Context(), key, rl.Window)
			if err != nil {
				log.Warn("rate limiter unavailable", slog.String("limiter", rl.Name), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(0, int64(rl.Limit)-count)
			w.Header().Set("RateLimit-Limit", strconv.Itoa(rl.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(int(ttl.Round(time.Second)/time.Second)))

			if count > int64(rl.Limit) {
				m.RateLimited(rl.Name)
				log.Info("too many requests", slog.String("limiter", rl.Name), slog.String("key", key))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Round(time.Second)/time.Second)))
				response.RenderStatus(w, r, http.StatusTooManyRequests, rl.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP берёт адрес из RemoteAddr, который уже переписан middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
