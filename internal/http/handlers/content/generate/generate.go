// Package generate реализует HTTP-обработчик генерации контента.
//
// Обработчик проверяет, что userId в теле совпадает с владельцем токена, и передаёт
// запрос диспетчеру. Генерация видео может занимать минуты: запрос держится до
// результата опроса провайдера или отмены клиентом.
package generate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/lib/validation"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type Dispatcher interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*models.Content, error)
}

type Response struct {
	response.Response
	ContentID   int64              `json:"contentId" example:"42"`
	URL         *string            `json:"url"`
	Description string             `json:"description"`
	Type        models.ContentType `json:"type" example:"image"`
}

type Handler struct {
	log        *slog.Logger
	dispatcher Dispatcher
	validate   *validator.Validate
}

func New(log *slog.Logger, dispatcher Dispatcher) *Handler {
	return &Handler{log: log, dispatcher: dispatcher, validate: validation.New()}
}

// ServeHTTP godoc
// @Summary Генерация изображения или видео
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateRequest true "Тип и описание"
// @Success 201 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Чужой userId или дневной лимит исчерпан"
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse "Ошибка провайдера генерации"
// @Router /content/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderInvalid(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.RenderInvalid(w, r, err)
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
		return
	}
	if user.ID != req.UserID {
		log.Info("generation for foreign user denied", slog.Int64("user_id", user.ID), slog.Int64("target_id", req.UserID))
		response.RenderError(w, r, models.ErrForbidden)
		return
	}

	content, err := h.dispatcher.Generate(r.Context(), req)
	if err != nil {
		log.Error("generation failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response:    response.OKMessage("Content generated successfully"),
		ContentID:   content.ID,
		URL:         content.URL,
		Description: content.Description,
		Type:        content.Type,
	})
}
