// Package auth содержит регистрацию, вход и проверку токенов пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/content-studio/internal/lib/jwt"
	"github.com/magabrotheeeer/content-studio/internal/lib/password"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по ID или models.ErrUserNotFound.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// QuotaEvaluator рассчитывает тариф и лимит пользователя для ответа на вход.
type QuotaEvaluator interface {
	Evaluate(ctx context.Context, userID int64) (models.Quota, error)
}

// AuthService отвечает за регистрацию, вход и проверку JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	quota    QuotaEvaluator
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, quota QuotaEvaluator, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		quota:    quota,
		log:      log,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает пользователя с хэшированным паролем и возвращает его ID.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (int64, error) {
	const op = "services.auth.Register"

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.CreateUser(ctx, models.User{
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: hashed,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.Int64("user_id", id))
	return id, nil
}

// Login проверяет пароль и выдаёт токен вместе с профилем и текущим тарифом.
// Неизвестный email и неверный пароль дают одну и ту же ошибку models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.Session, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			_ = password.CompareDummy(rawPassword)
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	q, err := s.quota.Evaluate(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Session{
		Token: token,
		User: models.Profile{
			ID:               user.ID,
			Username:         user.Username,
			Email:            user.Email,
			SubscriptionType: q.Tier,
			GenerationsLimit: q.Limit,
		},
	}, nil
}

// Authenticate проверяет токен и заново читает пользователя из базы.
// Возвращает models.ErrTokenExpired, models.ErrInvalidToken или models.ErrTokenUserNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidToken)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTokenUserNotFound)
		}
		s.log.Error("failed to load token owner", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
