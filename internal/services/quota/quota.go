// Package quota вычисляет дневную квоту генераций по сохранённым строкам контента и подписок.
// Ничего не кэшируется: каждый вызов заново читает базу.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/content-studio/internal/lib/calendar"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Repository описывает данные, нужные для расчёта квоты.
type Repository interface {
	// LatestActiveSubscription возвращает активную запись с самой поздней датой окончания
	// или ошибку models.ErrSubscriptionMissing.
	LatestActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	// CountContentCreatedBetween считает артефакты пользователя в полуинтервале [from, to).
	CountContentCreatedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

// Evaluator считает квоту пользователя на текущий день.
type Evaluator struct {
	repo  Repository
	limit int
	loc   *time.Location
	now   func() time.Time
}

// New создаёт Evaluator с дневным лимитом бесплатного тарифа limit и границами дня в поясе loc.
func New(repo Repository, limit int, loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{
		repo:  repo,
		limit: limit,
		loc:   loc,
		now:   time.Now,
	}
}

// Evaluate возвращает квоту пользователя. Премиум определяется по записи со статусом active,
// чья дата окончания строго позже текущего момента.
func (e *Evaluator) Evaluate(ctx context.Context, userID int64) (models.Quota, error) {
	const op = "services.quota.Evaluate"
	now := e.now()

	sub, err := e.repo.LatestActiveSubscription(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrSubscriptionMissing) {
		return models.Quota{}, fmt.Errorf("%s: %w", op, err)
	}

	from, to := calendar.DayBounds(now, e.loc)
	used, err := e.repo.CountContentCreatedBetween(ctx, userID, from, to)
	if err != nil {
		return models.Quota{}, fmt.Errorf("%s: %w", op, err)
	}

	if sub.IsEffective(now) {
		return models.Quota{
			Allowed:   true,
			Used:      used,
			Limit:     models.PremiumDisplayLimit,
			Remaining: models.PremiumDisplayLimit,
			Tier:      models.TierPremium,
			Unlimited: true,
		}, nil
	}

	return models.Quota{
		Allowed:   used < e.limit,
		Used:      used,
		Limit:     e.limit,
		Remaining: max(0, e.limit-used),
		Tier:      models.TierFree,
	}, nil
}

// Location возвращает часовой пояс, в котором считаются границы дня.
func (e *Evaluator) Location() *time.Location {
	return e.loc
}
