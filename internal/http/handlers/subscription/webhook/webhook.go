// Package webhook принимает уведомления Stripe. Тело читается как есть:
// подпись считается по исходным байтам.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
)

// MaxBodyBytes ограничивает размер события Stripe.
const MaxBodyBytes = 65536

const SignatureHeader = "Stripe-Signature"

type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type Response struct {
	response.Response
	Received bool `json:"received"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук Stripe
// @Tags Subscription
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Неверная подпись"
// @Router /subscription/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		log.Error("failed to read body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(payload) > MaxBodyBytes {
		response.RenderStatus(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
		log.Error("webhook rejected", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Received: true})
}
