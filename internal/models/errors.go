package models

import (
	"errors"
	"strings"
)

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenUserNotFound   = errors.New("invalid token - user not found")
	ErrForbidden           = errors.New("access denied")
	ErrContentNotFound     = errors.New("content not found")
	ErrSubscriptionMissing = errors.New("subscription not found")
	ErrQuotaExceeded       = errors.New("daily limit reached")
	ErrProviderFailed      = errors.New("generation provider failed")
	ErrInvalidContentType  = errors.New("invalid content type")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrPaymentsDisabled    = errors.New("payment provider is not configured")
)

// ErrPaymentProcessed возвращается при повторной обработке того же платежа провайдера.
var ErrPaymentProcessed = errors.New("payment already processed")

// ProviderError — отказ внешнего провайдера генерации. Сопоставляется с ErrProviderFailed через errors.Is.
type ProviderError struct {
	Kind ContentType
	Err  error
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case ContentVideo:
		return "Video generation failed: " + e.detail()
	default:
		return "Image generation failed: " + e.detail()
	}
}

// detail снимает префиксы вида "op: " и оставляет сообщение самого провайдера.
func (e *ProviderError) detail() string {
	err := e.Err
	for {
		inner := errors.Unwrap(err)
		if inner == nil || !strings.HasSuffix(err.Error(), ": "+inner.Error()) {
			return err.Error()
		}
		err = inner
	}
}

func (e *ProviderError) Unwrap() []error {
	return []error{ErrProviderFailed, e.Err}
}
