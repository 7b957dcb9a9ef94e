// Package cangenerate сообщает, может ли пользователь запустить генерацию сегодня.
package cangenerate

import (
	"context"
	"fmt"
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

// Unlimited — значение remaining для премиум-пользователей.
const Unlimited = "unlimited"

type QuotaEvaluator interface {
	Evaluate(ctx context.Context, userID int64) (models.Quota, error)
}

// Response — результат проверки квоты. Remaining — число или "unlimited".
type Response struct {
	response.Response
	CanGenerate      bool        `json:"canGenerate"`
	SubscriptionType models.Tier `json:"subscriptionType" example:"free"`
	Used             int         `json:"used"`
	Limit            int         `json:"limit"`
	Remaining        any         `json:"remaining" swaggertype:"string" example:"5"`
}

type Handler struct {
	log   *slog.Logger
	quota QuotaEvaluator
}

func New(log *slog.Logger, quota QuotaEvaluator) *Handler {
	return &Handler{log: log, quota: quota}
}

// ServeHTTP godoc
// @Summary Проверка дневной квоты
// @Tags Generations
// @Produce json
// @Security BearerAuth
// @Param userId path int true "ID пользователя"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /generations/can-generate/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generations.cangenerate"

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

	render.JSON(w, r, FromQuota(q))
}

// FromQuota строит ответ по рассчитанной квоте.
func FromQuota(q models.Quota) Response {
	resp := Response{
		CanGenerate:      q.Allowed,
		SubscriptionType: q.Tier,
		Used:             q.Used,
		Limit:            q.Limit,
		Remaining:        q.Remaining,
	}
	switch {
	case q.Unlimited:
		resp.Remaining = Unlimited
		resp.Response = response.OKMessage("Premium user has unlimited generations")
	case q.Allowed:
		resp.Response = response.OKMessage(fmt.Sprintf("You have %d generations remaining today", q.Remaining))
	default:
		resp.Response = response.OKMessage("Daily limit reached. Upgrade to Premium for unlimited generations!")
	}
	return resp
}
