// Package contentstudio собирает зависимости и запускает HTTP-сервер.
package contentstudio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-studio/internal/assetstore"
	"github.com/magabrotheeeer/content-studio/internal/cache"
	"github.com/magabrotheeeer/content-studio/internal/config"
	"github.com/magabrotheeeer/content-studio/internal/lib/calendar"
	"github.com/magabrotheeeer/content-studio/internal/lib/jwt"
	"github.com/magabrotheeeer/content-studio/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/metrics"
	"github.com/magabrotheeeer/content-studio/internal/migrations"
	"github.com/magabrotheeeer/content-studio/internal/paymentprovider"
	"github.com/magabrotheeeer/content-studio/internal/provider/imagegen"
	"github.com/magabrotheeeer/content-studio/internal/provider/videogen"
	authservice "github.com/magabrotheeeer/content-studio/internal/services/auth"
	contentservice "github.com/magabrotheeeer/content-studio/internal/services/content"
	feedbackservice "github.com/magabrotheeeer/content-studio/internal/services/feedback"
	"github.com/magabrotheeeer/content-studio/internal/services/generation"
	"github.com/magabrotheeeer/content-studio/internal/services/quota"
	"github.com/magabrotheeeer/content-studio/internal/services/stats"
	subservice "github.com/magabrotheeeer/content-studio/internal/services/subscription"
	usersservice "github.com/magabrotheeeer/content-studio/internal/services/users"
	"github.com/magabrotheeeer/content-studio/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
	stats  *stats.Job
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.contentstudio.New"

	loc, err := calendar.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db}

	// Без адреса Redis лимиты запросов не применяются.
	if cfg.AddressRedis != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		logger.Warn("redis address is empty, rate limiting disabled")
	}

	var publisher generation.Publisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqp = conn
		ch, err := rabbitmq.SetupChannel(conn)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, events are not published")
	}

	assets, err := assetstore.New(ctx, cfg.AssetStorage, cfg.PublicURL)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var payments subservice.PaymentProvider
	if cfg.Stripe.SecretKey != "" {
		payments = paymentprovider.NewStripe(cfg.Stripe, nil)
	} else {
		logger.Warn("stripe secret key is empty, checkout and webhook are disabled")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	quotaEvaluator := quota.New(db, cfg.Quota.DailyFreeLimit, loc)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	deps := Dependencies{
		Auth:         authservice.NewAuthService(db, jwtMaker, quotaEvaluator, logger),
		Users:        usersservice.New(db, logger),
		Quota:        quotaEvaluator,
		Generation:   generation.New(quotaEvaluator, imagegen.New(cfg.ImageProvider), videogen.New(cfg.VideoProvider, logger), assets, db, publisher, m, logger),
		Content:      contentservice.New(db, assets, logger),
		Subscription: subservice.New(db, payments, publisher, m, cfg.FrontendURL, logger),
		Feedback:     feedbackservice.New(db, logger),
		DB:           db,
		Assets:       assets,
		Metrics:      m,
	}
	if app.cache != nil {
		deps.Limiter = app.cache
	}

	app.stats = stats.New(db, publisher, m, loc, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, deps)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := a.stats.Start(); err != nil {
		a.close()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		a.logger.Info("shutting down HTTP server gracefully")
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := a.server.Shutdown(timeoutCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	a.stats.Stop(timeoutCtx)
	a.close()
	return err
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
