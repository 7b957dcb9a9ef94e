// Package stats раз в сутки подводит итоги генераций за прошедший день.
// Квоту он не сбрасывает: она вычисляется по дате создания контента.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/content-studio/internal/lib/calendar"
	"github.com/magabrotheeeer/content-studio/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/metrics"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Schedule — полночь в часовом поясе квоты.
const Schedule = "0 0 * * *"

const runTimeout = time.Minute

// Repository считает генерации за период.
type Repository interface {
	DailyStats(ctx context.Context, from, to time.Time) (models.DailyStats, error)
}

// Publisher отправляет доменные события.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Job считает статистику за прошедшие сутки.
type Job struct {
	repo      Repository
	publisher Publisher
	metrics   *metrics.Metrics
	loc       *time.Location
	log       *slog.Logger
	cron      *cron.Cron
	now       func() time.Time
}

// New создаёт Job, который срабатывает в полночь по loc.
func New(repo Repository, publisher Publisher, m *metrics.Metrics, loc *time.Location, log *slog.Logger) *Job {
	if loc == nil {
		loc = time.Local
	}
	return &Job{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		loc:       loc,
		log:       log,
		cron:      cron.New(cron.WithLocation(loc)),
		now:       time.Now,
	}
}

// Start регистрирует задачу и запускает планировщик в отдельной горутине.
func (j *Job) Start() error {
	const op = "services.stats.Start"
	_, err := j.cron.AddFunc(Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.log.Error("daily stats failed", sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	j.cron.Start()
	j.log.Info("daily stats job scheduled", slog.String("schedule", Schedule), slog.String("location", j.loc.String()))
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенной задачи или отмены ctx.
func (j *Job) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Run считает статистику за предыдущий календарный день, выставляет метрики и публикует событие.
func (j *Job) Run(ctx context.Context) (models.DailyStats, error) {
	const op = "services.stats.Run"

	from, to := calendar.PreviousDay(j.now(), j.loc)
	stats, err := j.repo.DailyStats(ctx, from, to)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("%s: %w", op, err)
	}

	j.metrics.DailyStats(stats.ActiveUsers, stats.Generations)
	j.log.Info("daily stats",
		slog.String("op", op),
		slog.String("day", from.Format(time.DateOnly)),
		slog.Int("active_users", stats.ActiveUsers),
		slog.Int("generations", stats.Generations))

	if err := j.publisher.Publish(rabbitmq.KeyStatsDaily, stats); err != nil {
		j.log.Warn("failed to publish event", sl.Err(err))
	}
	return stats, nil
}
