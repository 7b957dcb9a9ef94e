// Package paymentprovider работает со Stripe Checkout: создаёт сессии оплаты
// и проверка подписи входящих вебхуков.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/magabrotheeeer/content-studio/internal/config"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// EventCheckoutCompleted — тип события успешной оплаты.
const EventCheckoutCompleted = "checkout.session.completed"

// CheckoutRequest содержит данные для создания сессии оплаты.
type CheckoutRequest struct {
	UserID      int64
	Email       string
	FrontendURL string
}

// Stripe создаёт сессии оплаты и разбирает вебхуки.
type Stripe struct {
	api            *client.API
	publishableKey string
	webhookSecret  string
	productName    string
}

// NewStripe создаёт клиента. backends == nil означает стандартные эндпоинты Stripe.
func NewStripe(cfg config.Stripe, backends *stripe.Backends) *Stripe {
	api := &client.API{}
	api.Init(cfg.SecretKey, backends)
	return &Stripe{
		api:            api,
		publishableKey: cfg.PublishableKey,
		webhookSecret:  cfg.WebhookSecret,
		productName:    cfg.ProductName,
	}
}

// CreateCheckout создаёт сессию Stripe Checkout на одну оплату премиума.
func (s *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (*models.Checkout, error) {
	const op = "paymentprovider.CreateCheckout"

	frontend := strings.TrimRight(req.FrontendURL, "/")
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(models.PremiumCurrency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(s.productName),
						Description: stripe.String("Unlimited AI content generation"),
					},
					UnitAmount: stripe.Int64(models.PremiumPriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(frontend + "/dashboard?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(frontend + "/subscription"),
		ClientReferenceID: stripe.String(strconv.FormatInt(req.UserID, 10)),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("user_id", strconv.FormatInt(req.UserID, 10))
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Checkout{
		SessionID:      session.ID,
		PublishableKey: s.publishableKey,
		URL:            session.URL,
	}, nil
}

// ParseWebhook проверяет подпись и возвращает событие успешной оплаты.
// Для событий других типов возвращает nil без ошибки.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (*models.CheckoutCompleted, error) {
	const op = "paymentprovider.ParseWebhook"

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true, Tolerance: webhook.DefaultTolerance})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrInvalidSignature, err)
	}

	if string(event.Type) != EventCheckoutCompleted {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw := session.Metadata["user_id"]
	if raw == "" {
		raw = session.Metadata["userId"]
	}
	if raw == "" {
		raw = session.ClientReferenceID
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%s: session %s has no valid user id", op, session.ID)
	}

	return &models.CheckoutCompleted{SessionID: session.ID, UserID: userID}, nil
}
