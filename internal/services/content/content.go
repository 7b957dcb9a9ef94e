// Package content отдаёт галерею пользователя и удаляет его артефакты.
package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/content-studio/internal/assetstore"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
	"github.com/magabrotheeeer/content-studio/internal/models"
)

// Repository определяет методы хранилища артефактов.
type Repository interface {
	GetContent(ctx context.Context, id int64) (*models.Content, error)
	ListContentByUser(ctx context.Context, userID int64) ([]models.Content, error)
	DeleteContent(ctx context.Context, id int64) (int64, error)
}

// Service управляет галереей.
type Service struct {
	repo   Repository
	assets assetstore.Store
	log    *slog.Logger
}

// New создаёт Service. assets может быть nil, тогда файлы при удалении не трогаются.
func New(repo Repository, assets assetstore.Store, log *slog.Logger) *Service {
	return &Service{repo: repo, assets: assets, log: log}
}

// List возвращает артефакты пользователя, новые первыми.
func (s *Service) List(ctx context.Context, userID int64) ([]models.Content, error) {
	const op = "services.content.List"
	items, err := s.repo.ListContentByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Delete удаляет артефакт, принадлежащий actorID.
// Чужой артефакт даёт models.ErrForbidden, отсутствующий models.ErrContentNotFound.
func (s *Service) Delete(ctx context.Context, actorID, contentID int64) error {
	const op = "services.content.Delete"

	item, err := s.repo.GetContent(ctx, contentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if item.UserID != actorID {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	n, err := s.repo.DeleteContent(ctx, contentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrContentNotFound)
	}

	// файл удаляется после строки; ошибка только логируется
	if s.assets != nil && item.URL != nil {
		if key, ok := s.assets.KeyFromURL(*item.URL); ok {
			if err := s.assets.Delete(ctx, key); err != nil {
				s.log.Warn("failed to delete asset", slog.String("op", op), slog.String("key", key), sl.Err(err))
			}
		}
	}
	return nil
}
