// Package subscription ведёт учёт премиум-подписок: статус, активацию, отмену,
// оплату через Stripe Checkout и историю платежей.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/content-studio/internal/lib/calendar"
	"github.com/magabrotheeeer/content-studio/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/metrics"
	"github.com/magabrotheeeer/content-studio/internal/models"
	"github.com/magabrotheeeer/content-studio/internal/paymentprovider"
)

// Repository определяет методы хранилища, нужные сервису подписок.
type Repository interface {
	// LatestActiveSubscription возвращает активную запись с самой поздней датой окончания
	// или models.ErrSubscriptionMissing.
	LatestActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	// ActivateSubscription атомарно продлевает или создаёт активную запись и сохраняет платёж.
	ActivateSubscription(ctx context.Context, userID int64, start, end time.Time,
		payment models.Payment) (*models.Subscription, error)
	// CancelActiveSubscriptions отменяет все активные записи пользователя.
	CancelActiveSubscriptions(ctx context.Context, userID int64) (int64, error)
	// ListPayments возвращает платежи пользователя.
	ListPayments(ctx context.Context, userID int64) ([]models.Payment, error)
	// GetUserByID возвращает пользователя по ID.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// PaymentProvider создаёт сессии оплаты и проверяет вебхуки.
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, req paymentprovider.CheckoutRequest) (*models.Checkout, error)
	ParseWebhook(payload []byte, signature string) (*models.CheckoutCompleted, error)
}

// Publisher отправляет доменные события.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику подписок.
type Service struct {
	repo        Repository
	payments    PaymentProvider
	publisher   Publisher
	metrics     *metrics.Metrics
	frontendURL string
	log         *slog.Logger
	now         func() time.Time
}

// New создаёт Service. payments может быть nil, если Stripe не настроен:
// тогда CreateCheckout и HandleWebhook возвращают models.ErrPaymentsDisabled.
func New(repo Repository, payments PaymentProvider, publisher Publisher, m *metrics.Metrics,
	frontendURL string, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		payments:    payments,
		publisher:   publisher,
		metrics:     m,
		frontendURL: frontendURL,
		log:         log,
		now:         time.Now,
	}
}

// Status возвращает действующую запись подписки пользователя и его тариф.
// Запись с истёкшей датой окончания возвращается, но премиум не даёт.
func (s *Service) Status(ctx context.Context, userID int64) (*models.SubscriptionState, error) {
	const op = "services.subscription.Status"

	sub, err := s.repo.LatestActiveSubscription(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrSubscriptionMissing) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	state := &models.SubscriptionState{Subscription: sub, Tier: models.TierFree}
	if sub.IsEffective(s.now()) {
		state.IsPremium = true
		state.Tier = models.TierPremium
	}
	return state, nil
}

// Activate открывает окно премиума [сейчас, сейчас+30 дней) и записывает оплату.
// Повторный вызов перезаписывает окно той же активной записи.
// providerRef — идентификатор платежа у провайдера, nil для ручной активации.
func (s *Service) Activate(ctx context.Context, userID int64, method string, providerRef *string) (*models.Subscription, error) {
	const op = "services.subscription.Activate"

	if method == "" {
		method = models.DefaultPaymentMethod
	}
	start, end := calendar.Window(s.now(), models.PremiumPeriodDays)
	payment := models.Payment{
		AmountCents: models.PremiumPriceCents,
		Currency:    models.PremiumCurrency,
		Method:      method,
		Status:      models.PaymentCompleted,
		ProviderRef: providerRef,
	}

	sub, err := s.repo.ActivateSubscription(ctx, userID, start, end, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.SubscriptionActivated(method)
	s.log.Info("premium activated",
		slog.String("op", op),
		slog.Int64("user_id", userID),
		slog.Int64("subscription_id", sub.ID),
		slog.Time("end_date", sub.EndDate))

	s.publish(rabbitmq.KeySubscriptionActivated, models.SubscriptionEvent{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Method:         method,
		EndDate:        &sub.EndDate,
	})
	return sub, nil
}

// Cancel переводит активные записи пользователя в cancelled. Отсутствие подписки ошибкой не считается.
func (s *Service) Cancel(ctx context.Context, userID int64) error {
	const op = "services.subscription.Cancel"

	n, err := s.repo.CancelActiveSubscriptions(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription cancelled", slog.String("op", op), slog.Int64("user_id", userID), slog.Int64("records", n))
	if n > 0 {
		s.publish(rabbitmq.KeySubscriptionCancelled, models.SubscriptionEvent{UserID: userID})
	}
	return nil
}

// CreateCheckout создаёт сессию оплаты премиума для пользователя.
func (s *Service) CreateCheckout(ctx context.Context, userID int64) (*models.Checkout, error) {
	const op = "services.subscription.CreateCheckout"
	if s.payments == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPaymentsDisabled)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	checkout, err := s.payments.CreateCheckout(ctx, paymentprovider.CheckoutRequest{
		UserID:      user.ID,
		Email:       user.Email,
		FrontendURL: s.frontendURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return checkout, nil
}

// HandleWebhook проверяет подпись события и активирует премиум после успешной оплаты.
// Повторная доставка того же события подтверждается без второй активации.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "services.subscription.HandleWebhook"
	if s.payments == nil {
		return fmt.Errorf("%s: %w", op, models.ErrPaymentsDisabled)
	}

	completed, err := s.payments.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if completed == nil {
		return nil
	}

	ref := completed.SessionID
	_, err = s.Activate(ctx, completed.UserID, models.StripePaymentMethod, &ref)
	if errors.Is(err, models.ErrPaymentProcessed) {
		s.log.Info("duplicate webhook delivery", slog.String("op", op), slog.String("session_id", ref))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Payments возвращает историю платежей пользователя.
func (s *Service) Payments(ctx context.Context, userID int64) ([]models.Payment, error) {
	const op = "services.subscription.Payments"
	payments, err := s.repo.ListPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

func (s *Service) publish(key string, event any) {
	if err := s.publisher.Publish(key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}
