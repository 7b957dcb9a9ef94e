package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-studio/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Delete(ctx context.Context, actorID, contentID int64) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление артефакта
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID артефакта"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Артефакт принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse
// @Router /content/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		log.Info("invalid id format", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, "Invalid content ID")
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.RenderStatus(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		log.Info("failed to delete content", slog.Int64("content_id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("content deleted", slog.Int64("content_id", id))
	render.JSON(w, r, response.OKMessage("Content deleted successfully"))
}
