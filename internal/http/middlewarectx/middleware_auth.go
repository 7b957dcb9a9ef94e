// Package middlewarectx содержит HTTP middleware сервиса: проверку JWT,
// проверку владельца ресурса, ограничение частоты запросов и сбор метрик.
//
// JWTMiddleware проверяет токен из заголовка Authorization, заново загружает
// пользователя и кладёт его в контекст запроса. При ошибке возвращает 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ аутентифицированного пользователя в контексте.
const User Key = "user"

// Authenticator проверяет токен и возвращает его владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext возвращает пользователя, положенного JWTMiddleware или OptionalAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(User).(*models.User)
	return u, ok && u != nil
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, User, u)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// JWTMiddleware требует действительный токен.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := bearerToken(r)
			if token == "" {
				log.Info("missing access token")
				response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				status, msg, known := response.StatusFor(err)
				if !known {
					log.Error("authentication failed", sl.Err(err))
					response.RenderStatus(w, r, http.StatusInternalServerError, "Authentication failed")
					return
				}
				log.Info("token rejected", sl.Err(err))
				response.RenderStatus(w, r, status, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth кладёт пользователя в контекст, если передан действительный токен,
// и пропускает запрос анонимно в остальных случаях.
func OptionalAuth(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug("ignoring invalid optional token",
					slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// SelfOnly пропускает запрос, только если параметр маршрута param совпадает с ID
// аутентифицированного пользователя. Ставится после JWTMiddleware.
func SelfOnly(param string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || id <= 0 {
				response.RenderStatus(w, r, http.StatusBadRequest, "Invalid user ID")
				return
			}
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
				return
			}
			if user.ID != id {
				log.Info("access to foreign resource denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.Int64("user_id", user.ID),
					slog.Int64("target_id", id))
				response.RenderStatus(w, r, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
