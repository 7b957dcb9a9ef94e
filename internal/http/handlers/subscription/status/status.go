// Package status отдаёт состояние премиум-подписки пользователя.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type Service interface {
	Status(ctx context.Context, userID int64) (*models.SubscriptionState, error)
}

type Response struct {
	response.Response
	models.SubscriptionState
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description subscription равен null, если активной записи нет. Истёкшая запись возвращается с isPremium=false.
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Param userId path int true "ID пользователя"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /subscription/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.RenderStatus(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	state, err := h.service.Status(r.Context(), userID)
	if err != nil {
		log.Error("failed to get subscription", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), SubscriptionState: *state})
}
