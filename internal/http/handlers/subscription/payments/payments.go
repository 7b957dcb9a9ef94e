// Package payments отдаёт историю оплат текущего пользователя.
package payments

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
	Payments(ctx context.Context, userID int64) ([]models.Payment, error)
}

type Response struct {
	response.Response
	Payments []models.Payment `json:"payments"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История оплат
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Router /subscription/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.payments"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	items, err := h.service.Payments(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Payments: items})
}
