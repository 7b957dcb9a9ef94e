// Package users отдаёт и изменяет профиль пользователя.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/content-studio/internal/models"
	"github.com/magabrotheeeer/content-studio/internal/services/auth"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, username, email string) (*models.User, error)
}

// Service работает с профилями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get возвращает пользователя по ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "services.users.Get"
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update меняет username и email пользователя id. Менять можно только свой профиль;
// пустые поля сохраняют текущие значения.
func (s *Service) Update(ctx context.Context, actorID, id int64, req models.UpdateUserRequest) (*models.User, error) {
	const op = "services.users.Update"
	if actorID != id {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	current, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = current.Username
	}
	email := auth.NormalizeEmail(req.Email)
	if email == "" {
		email = current.Email
	}
	if username == current.Username && email == current.Email {
		return current, nil
	}

	updated, err := s.repo.UpdateUser(ctx, id, username, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile updated", slog.String("op", op), slog.Int64("user_id", id))
	return updated, nil
}
