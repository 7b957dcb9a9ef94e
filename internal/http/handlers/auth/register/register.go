// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-studio/internal/http/response"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/lib/validation"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Service создаёт учётную запись.
type Service interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
}

// Response — ответ на успешную регистрацию.
type Response struct {
	response.Response
	UserID int64 `json:"userId" example:"1"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Данные пользователя"
// @Success 201 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации или пользователь уже существует"
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
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

	id, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("user registered", slog.Int64("user_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response: response.OKMessage("User registered successfully"),
		UserID:   id,
	})
}
