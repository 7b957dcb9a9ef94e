// Package count отдаёт число генераций пользователя за сегодня.
package count

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-studio/internal/http/handlers/generations/cangenerate"
	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type QuotaEvaluator interface {
	Evaluate(ctx context.Context, userID int64) (models.Quota, error)
}

type Response struct {
	response.Response
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining any `json:"remaining" swaggertype:"string" example:"3"`
}

type Handler struct {
	log   *slog.Logger
	quota QuotaEvaluator
}

func New(log *slog.Logger, quota QuotaEvaluator) *Handler {
	return &Handler{log: log, quota: quota}
}

// ServeHTTP godoc
// @Summary Число генераций за сегодня
// @Tags Generations
// @Produce json
// @Security BearerAuth
// @Param userId path int true "ID пользователя"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /generations/count/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generations.count"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.RenderStatus(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	q, err := h.quota.Evaluate(r.Context(), userID)
	if err != nil {
		log.Error("failed to evaluate quota", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	resp := Response{Response: response.OK(), Count: q.Used, Limit: q.Limit, Remaining: q.Remaining}
	if q.Unlimited {
		resp.Remaining = cangenerate.Unlimited
	}
	render.JSON(w, r, resp)
}
