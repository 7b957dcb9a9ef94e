// Package submit принимает отзыв. Токен необязателен: без него отзыв сохраняется анонимно.
package submit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

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
	Submit(ctx context.Context, userID *int64, message string) (int64, error)
}

type Response struct {
	response.Response
	FeedbackID int64 `json:"feedbackId"`
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
// @Summary Отправка отзыва
// @Description Автор берётся из токена. userId из тела запроса не используется.
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body models.FeedbackRequest true "Текст отзыва"
// @Success 201 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse
// @Router /feedback/submit [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderInvalid(w, r, err)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(req); err != nil {
		response.RenderInvalid(w, r, err)
		return
	}

	var author *int64
	if user, ok := middlewarectx.UserFromContext(r.Context()); ok {
		author = &user.ID
	}

	id, err := h.service.Submit(r.Context(), author, req.Message)
	if err != nil {
		log.Error("failed to submit feedback", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response:   response.OKMessage("Feedback submitted successfully"),
		FeedbackID: id,
	})
}
