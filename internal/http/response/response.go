// Package response формирует единый JSON-конверт ответов HTTP-обработчиков:
// {"success": bool, "message"?: string, ...поля ответа}.
// Поля ответа добавляются встраиванием Response в структуру обработчика.
package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Response — общая часть любого ответа.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Profile updated successfully"`
}

// ErrorResponse — ответ с ошибкой. Поле Error заполняется только в режиме разработки.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid credentials"`
	Error   string `json:"error,omitempty"`
}

// FieldError описывает нарушение правила валидации одного поля.
type FieldError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"Invalid email format"`
}

// ValidationErrorResponse отдаётся с кодом 400 вместе с перечнем нарушений.
type ValidationErrorResponse struct {
	Success bool         `json:"success" example:"false"`
	Message string       `json:"message" example:"Validation failed"`
	Errors  []FieldError `json:"errors"`
}

// InternalErrorMessage отдаётся вместо текста неожиданной ошибки.
const InternalErrorMessage = "An internal server error occurred"

// OK возвращает успешный конверт без сообщения.
func OK() Response {
	return Response{Success: true}
}

// OKMessage возвращает успешный конверт с сообщением.
func OKMessage(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Error возвращает конверт с ошибкой.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Message: msg}
}

// ValidationError переводит ошибки validator в список {field, message}.
func ValidationError(errs validator.ValidationErrors) ValidationErrorResponse {
	fields := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		fields = append(fields, FieldError{Field: err.Field(), Message: fieldMessage(err)})
	}
	return ValidationErrorResponse{Message: "Validation failed", Errors: fields}
}

func fieldMessage(err validator.FieldError) string {
	switch err.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("Valid %s is required", err.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "strongpassword":
		return "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	default:
		return fmt.Sprintf("%s is not valid", err.Field())
	}
}

// StatusFor сопоставляет доменную ошибку с HTTP-статусом и сообщением клиенту.
// known == false означает неожиданную ошибку, текст которой наружу не отдаётся.
func StatusFor(err error) (status int, msg string, known bool) {
	var providerErr *models.ProviderError
	switch {
	case errors.As(err, &providerErr):
		return http.StatusInternalServerError, providerErr.Error(), true
	case errors.Is(err, models.ErrUserExists):
		return http.StatusBadRequest, "User already exists", true
	case errors.Is(err, models.ErrInvalidContentType):
		return http.StatusBadRequest, "Invalid content type", true
	case errors.Is(err, models.ErrInvalidSignature):
		return http.StatusBadRequest, "Webhook signature verification failed", true
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", true
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired", true
	case errors.Is(err, models.ErrTokenUserNotFound):
		return http.StatusUnauthorized, "Invalid token - user not found", true
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token", true
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Access denied", true
	case errors.Is(err, models.ErrQuotaExceeded):
		return http.StatusForbidden, "Daily limit reached. Upgrade to Premium for unlimited generations!", true
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, models.ErrContentNotFound):
		return http.StatusNotFound, "Content not found", true
	case errors.Is(err, models.ErrPaymentsDisabled):
		return http.StatusServiceUnavailable, "Payments are not configured", true
	default:
		return http.StatusInternalServerError, InternalErrorMessage, false
	}
}

type verboseKey struct{}

// Verbose включает выдачу текста неожиданных ошибок клиенту. Используется в режиме разработки.
func Verbose(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), verboseKey{}, enabled)))
		})
	}
}

func isVerbose(r *http.Request) bool {
	v, _ := r.Context().Value(verboseKey{}).(bool)
	return v
}

// RenderError пишет конверт ошибки для err. Если запрос прошёл через Verbose(true),
// текст неожиданной ошибки добавляется в поле error.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg, known := StatusFor(err)
	resp := Error(msg)
	if isVerbose(r) && !known {
		resp.Error = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// RenderStatus пишет конверт ошибки с явным статусом.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// RenderInvalid пишет ответ 400 по ошибке валидации или разбора тела.
func RenderInvalid(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(verrs))
		return
	}
	RenderStatus(w, r, http.StatusBadRequest, "Invalid request body")
}
