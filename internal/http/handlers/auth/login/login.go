// Package login реализует HTTP-обработчик входа пользователя.
//
// Неизвестный email и неверный пароль дают одинаковый ответ 401 "Invalid credentials".
// При успехе возвращается JWT и профиль с текущим тарифом.
package login

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

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

type Response struct {
	response.Response
	models.Session
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль. Возвращает JWT и профиль с типом подписки и дневным лимитом.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Учетные данные пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
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

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("login success", slog.Int64("user_id", session.User.ID))
	render.JSON(w, r, Response{
		Response: response.OKMessage("Login successful"),
		Session:  *session,
	})
}
