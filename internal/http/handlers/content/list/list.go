// Package list отдаёт галерею пользователя.
package list

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
	List(ctx context.Context, userID int64) ([]models.Content, error)
}

type Response struct {
	response.Response
	Content []models.Content `json:"content"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Галерея пользователя
// @Description Артефакты пользователя, новые первыми.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param userId path int true "ID пользователя"
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /content/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		response.RenderStatus(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list content", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Debug("content listed", slog.Int("count", len(items)))
	render.JSON(w, r, Response{Response: response.OK(), Content: items})
}
