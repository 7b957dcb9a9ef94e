package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

// CreateFeedback сохраняет отзыв; userID может быть nil для анонимного отзыва.
func (s *Storage) CreateFeedback(ctx context.Context, userID *int64, message string) (int64, error) {
	const op = "storage.CreateFeedback"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO feedback (user_id, message) VALUES ($1, $2) RETURNING id`, userID, message).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListFeedback возвращает все отзывы, новые первыми.
func (s *Storage) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	const op = "storage.ListFeedback"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_id, message, created_at FROM feedback ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Feedback, 0)
	for rows.Next() {
		var f models.Feedback
		var userID sql.NullInt64
		if err := rows.Scan(&f.ID, &userID, &f.Message, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if userID.Valid {
			f.UserID = &userID.Int64
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
