// Package activate включает премиум текущему пользователю на 30 дней с тестовой оплатой.
package activate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/lib/validation"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type Service interface {
	Activate(ctx context.Context, userID int64, method string, providerRef *string) (*models.Subscription, error)
}

type Response struct {
	response.Response
	SubscriptionID int64     `json:"subscriptionId"`
	EndDate        time.Time `json:"endDate"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validation.New()}
}

// ServeHTTP godoc
// @Summary Активация премиума
// @Description Открывает окно [сейчас, сейчас+30 дней) и записывает оплату $10.00. Тело запроса необязательно.
// @Tags Subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ActivateRequest false "Способ оплаты"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Router /subscription/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	var req models.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderInvalid(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.RenderInvalid(w, r, err)
		return
	}

	sub, err := h.service.Activate(r.Context(), user.ID, req.PaymentMethod, nil)
	if err != nil {
		log.Error("activation failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, Response{
		Response:       response.OKMessage("Premium subscription activated successfully!"),
		SubscriptionID: sub.ID,
		EndDate:        sub.EndDate,
	})
}
