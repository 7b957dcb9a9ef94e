package models

import "time"

// SubscriptionStatus — состояние записи подписки.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// PremiumPeriodDays — длительность оплаченного окна.
const PremiumPeriodDays = 30

// Subscription — запись о премиум-подписке пользователя.
type Subscription struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"userId"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"startDate"`
	EndDate   time.Time          `json:"endDate"`
	CreatedAt time.Time          `json:"createdAt"`
}

// IsEffective сообщает, даёт ли запись премиум в момент now.
// Истечение вычисляется при чтении, статус в базе при этом остаётся active.
func (s *Subscription) IsEffective(now time.Time) bool {
	return s != nil && s.Status == SubscriptionActive && s.EndDate.After(now)
}

// SubscriptionState — ответ на запрос статуса подписки.
type SubscriptionState struct {
	Subscription *Subscription `json:"subscription"`
	IsPremium    bool          `json:"isPremium"`
	Tier         Tier          `json:"subscriptionType"`
}

// Payment хранит оплату подписки.
type Payment struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscriptionId"`
	AmountCents    int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Method         string    `json:"paymentMethod"`
	Status         string    `json:"status"`
	ProviderRef    *string   `json:"providerRef,omitempty"`
	PaidAt         time.Time `json:"paidAt"`
}

const (
	PremiumPriceCents    = 1000
	PremiumCurrency      = "usd"
	PaymentCompleted     = "completed"
	DefaultPaymentMethod = "Test Card"
	StripePaymentMethod  = "Stripe"
)

// ActivateRequest задаёт способ оплаты при ручной активации.
type ActivateRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=64"`
}

// Checkout — созданная сессия оплаты у платёжного провайдера.
type Checkout struct {
	SessionID      string `json:"sessionId"`
	PublishableKey string `json:"stripePublicKey"`
	URL            string `json:"checkoutUrl"`
}

// CheckoutCompleted получается из события успешной оплаты.
type CheckoutCompleted struct {
	SessionID string
	UserID    int64
}
