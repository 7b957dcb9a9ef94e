package contentstudio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/content-studio/docs"
	"github.com/magabrotheeeer/content-studio/internal/assetstore"
	"github.com/magabrotheeeer/content-studio/internal/config"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/content/generate"
	contentlist "github.com/magabrotheeeer/content-studio/internal/http/handlers/content/list"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/content/remove"
	feedbacklist "github.com/magabrotheeeer/content-studio/internal/http/handlers/feedback/list"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/feedback/submit"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/generations/cangenerate"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/generations/count"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/health"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/subscription/activate"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/subscription/checkout"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/subscription/payments"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/subscription/webhook"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/users/profile"
	"github.com/magabrotheeeer/content-studio/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/metrics"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Сообщения при превышении лимитов.
const (
	generalLimitMessage  = "Too many requests from this IP, please try again later."
	authLimitMessage     = "Too many authentication attempts, please try again later."
	generateLimitMessage = "Too many generation requests, please slow down."
)

type AuthService interface {
	register.Service
	login.Service
	middlewarectx.Authenticator
}

type UsersService interface {
	profile.Service
	update.Service
}

type ContentService interface {
	contentlist.Service
	remove.Service
}

type SubscriptionService interface {
	status.Service
	checkout.Service
	activate.Service
	cancel.Service
	webhook.Service
	payments.Service
}

type FeedbackService interface {
	submit.Service
	feedbacklist.Service
}

type QuotaEvaluator interface {
	Evaluate(ctx context.Context, userID int64) (models.Quota, error)
}

// Dependencies перечисляет сервисы, из которых собираются обработчики.
// Limiter равен nil, если Redis не настроен.
type Dependencies struct {
	Auth         AuthService
	Users        UsersService
	Quota        QuotaEvaluator
	Generation   generate.Dispatcher
	Content      ContentService
	Subscription SubscriptionService
	Feedback     FeedbackService
	DB           health.Pinger
	Assets       assetstore.Store
	Limiter      middlewarectx.Counter
	Metrics      *metrics.Metrics
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Dependencies) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middlewarectx.Metrics(deps.Metrics),
		middlewarectx.Recoverer(logger),
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", webhook.SignatureHeader},
			ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		response.Verbose(cfg.IsDevelopment()),
	)

	limit := func(name string, requests int, window time.Duration, msg string) func(http.Handler) http.Handler {
		if deps.Limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middlewarectx.RateLimitMiddleware(deps.Limiter, middlewarectx.RateLimit{
			Name:    name,
			Limit:   requests,
			Window:  window,
			Message: msg,
		}, deps.Metrics, logger)
	}
	rl := cfg.RateLimit

	jwtAuth := middlewarectx.JWTMiddleware(deps.Auth, logger)
	self := func(param string) func(http.Handler) http.Handler {
		return middlewarectx.SelfOnly(param, logger)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OKMessage("Content Studio API is running"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(limit("general", rl.GeneralRequests, rl.GeneralWindow, generalLimitMessage))

		r.Get("/health", health.New(logger, deps.DB).ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			r.Use(limit("auth", rl.AuthRequests, rl.AuthWindow, authLimitMessage))
			r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, deps.Auth).ServeHTTP)
		})

		// Подпись Stripe заменяет токен.
		r.Post("/subscription/webhook", webhook.New(logger, deps.Subscription).ServeHTTP)

		r.With(middlewarectx.OptionalAuth(deps.Auth, logger)).
			Post("/feedback/submit", submit.New(logger, deps.Feedback).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth)

			r.Get("/users/{id}", profile.New(logger, deps.Users).ServeHTTP)
			r.With(self("id")).Put("/users/{id}", update.New(logger, deps.Users).ServeHTTP)

			r.With(self("userId")).Get("/generations/can-generate/{userId}", cangenerate.New(logger, deps.Quota).ServeHTTP)
			r.With(self("userId")).Get("/generations/count/{userId}", count.New(logger, deps.Quota).ServeHTTP)

			r.With(limit("generate", rl.GenerateRequests, rl.GenerateWindow, generateLimitMessage)).
				Post("/content/generate", generate.New(logger, deps.Generation).ServeHTTP)
			r.With(self("userId")).Get("/content/user/{userId}", contentlist.New(logger, deps.Content).ServeHTTP)
			r.Delete("/content/{id}", remove.New(logger, deps.Content).ServeHTTP)

			r.With(self("userId")).Get("/subscription/user/{userId}", status.New(logger, deps.Subscription).ServeHTTP)
			r.Post("/subscription/create-checkout", checkout.New(logger, deps.Subscription).ServeHTTP)
			r.Post("/subscription/activate", activate.New(logger, deps.Subscription).ServeHTTP)
			r.Post("/subscription/cancel", cancel.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/subscription/payments", payments.New(logger, deps.Subscription).ServeHTTP)

			r.Get("/feedback", feedbacklist.New(logger, deps.Feedback).ServeHTTP)
		})
	})

	if local, ok := deps.Assets.(*assetstore.LocalStore); ok {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RenderStatus(w, r, http.StatusNotFound, fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RenderStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
