package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

type Service interface {
	List(ctx context.Context) ([]models.Feedback, error)
}

type Response struct {
	response.Response
	Feedback []models.Feedback `json:"feedback"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список отзывов
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Router /feedback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list feedback", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, Response{Response: response.OK(), Feedback: items})
}
