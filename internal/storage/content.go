package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

// CreateContent сохраняет запись о сгенерированном артефакте и возвращает её с ID и датой создания.
func (s *Storage) CreateContent(ctx context.Context, c models.Content) (*models.Content, error) {
	const op = "storage.CreateContent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO content (user_id, type, title, description, url)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at`
	err := s.DB.QueryRowContext(ctx, query, c.UserID, c.Type, c.Title, c.Description, c.URL).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// GetContent возвращает артефакт по ID.
func (s *Storage) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	const op = "storage.GetContent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, type, title, description, url, created_at
			  FROM content WHERE id = $1`
	c, err := scanContent(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrContentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListContentByUser возвращает артефакты пользователя, новые первыми.
func (s *Storage) ListContentByUser(ctx context.Context, userID int64) ([]models.Content, error) {
	const op = "storage.ListContentByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, type, title, description, url, created_at
			  FROM content
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteContent удаляет артефакт и возвращает количество удалённых строк.
func (s *Storage) DeleteContent(ctx context.Context, id int64) (int64, error) {
	const op = "storage.DeleteContent"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// CountContentCreatedBetween считает артефакты пользователя, созданные в полуинтервале [from, to).
func (s *Storage) CountContentCreatedBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	const op = "storage.CountContentCreatedBetween"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM content
			  WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	if err := s.DB.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DailyStats возвращает число авторов и генераций за полуинтервал [from, to).
func (s *Storage) DailyStats(ctx context.Context, from, to time.Time) (models.DailyStats, error) {
	const op = "storage.DailyStats"
	stats := models.DailyStats{Day: from}
	if err := checkCtx(ctx, op); err != nil {
		return stats, err
	}

	query := `SELECT COUNT(DISTINCT user_id), COUNT(*) FROM content
			  WHERE created_at >= $1 AND created_at < $2`
	if err := s.DB.QueryRowContext(ctx, query, from, to).Scan(&stats.ActiveUsers, &stats.Generations); err != nil {
		return stats, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.Content, error) {
	var c models.Content
	var url sql.NullString
	if err := row.Scan(&c.ID, &c.UserID, &c.Type, &c.Title, &c.Description, &url, &c.CreatedAt); err != nil {
		return nil, err
	}
	if url.Valid {
		c.URL = &url.String
	}
	return &c, nil
}
