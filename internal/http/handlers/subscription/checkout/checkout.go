// Package checkout создаёт сессию оплаты премиума в Stripe Checkout.
package checkout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type Service interface {
	CreateCheckout(ctx context.Context, userID int64) (*models.Checkout, error)
}

type Response struct {
	response.Response
	models.Checkout
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оплата премиума
// @Description Создаёт сессию Stripe Checkout на $10.00 для текущего пользователя.
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse "Платёжный провайдер не настроен"
// @Router /subscription/create-checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	checkout, err := h.service.CreateCheckout(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to create checkout", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("checkout created", slog.Int64("user_id", user.ID), slog.String("session_id", checkout.SessionID))
	render.JSON(w, r, Response{Response: response.OK(), Checkout: *checkout})
}
