// Package feedback принимает отзывы пользователей и анонимных посетителей.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Repository определяет методы хранилища отзывов.
type Repository interface {
	CreateFeedback(ctx context.Context, userID *int64, message string) (int64, error)
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Submit сохраняет отзыв и возвращает его ID. userID равен nil для анонимного отзыва.
func (s *Service) Submit(ctx context.Context, userID *int64, message string) (int64, error) {
	const op = "services.feedback.Submit"
	id, err := s.repo.CreateFeedback(ctx, userID, strings.TrimSpace(message))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("feedback submitted", slog.String("op", op), slog.Int64("feedback_id", id), slog.Bool("anonymous", userID == nil))
	return id, nil
}

// List возвращает все отзывы, новые первыми.
func (s *Service) List(ctx context.Context) ([]models.Feedback, error) {
	const op = "services.feedback.List"
	items, err := s.repo.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
