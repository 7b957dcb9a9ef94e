package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/content-studio/internal/models"
)

// LatestActiveSubscription возвращает запись со статусом active и самой поздней датой окончания.
// Срок действия здесь не проверяется: истечение вычисляет вызывающий код.
func (s *Storage) LatestActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "storage.LatestActiveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, status, start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_id = $1 AND status = 'active'
			  ORDER BY end_date DESC
			  LIMIT 1`
	var sub models.Subscription
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID, &sub.UserID, &sub.Status, &sub.StartDate, &sub.EndDate, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionMissing)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ActivateSubscription в одной транзакции продлевает активную запись пользователя
// (или создаёт новую) на окно [start, end) и записывает платёж.
// Строка пользователя блокируется, поэтому параллельные активации выполняются по очереди.
func (s *Storage) ActivateSubscription(ctx context.Context, userID int64, start, end time.Time,
	payment models.Payment) (*models.Subscription, error) {
	const op = "storage.ActivateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if payment.ProviderRef != nil {
		var processed bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE provider_ref = $1)`, *payment.ProviderRef).Scan(&processed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if processed {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPaymentProcessed)
		}
	}

	sub := models.Subscription{UserID: userID, Status: models.SubscriptionActive, StartDate: start, EndDate: end}
	err = tx.QueryRowContext(ctx, `
		UPDATE subscriptions SET start_date = $1, end_date = $2
		WHERE user_id = $3 AND status = 'active'
		RETURNING id, created_at`, start, end, userID).Scan(&sub.ID, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO subscriptions (user_id, status, start_date, end_date)
			VALUES ($1, 'active', $2, $3)
			RETURNING id, created_at`, userID, start, end).Scan(&sub.ID, &sub.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (subscription_id, amount, currency, payment_method, status, provider_ref, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, payment.AmountCents, payment.Currency, payment.Method, payment.Status, payment.ProviderRef, start)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPaymentProcessed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// CancelActiveSubscriptions переводит все активные записи пользователя в cancelled
// и возвращает количество изменённых строк.
func (s *Storage) CancelActiveSubscriptions(ctx context.Context, userID int64) (int64, error) {
	const op = "storage.CancelActiveSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'`, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ListPayments возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT p.id, p.subscription_id, p.amount, p.currency, p.payment_method, p.status,
				p.provider_ref, p.paid_at
			  FROM payments p
			  JOIN subscriptions s ON s.id = p.subscription_id
			  WHERE s.user_id = $1
			  ORDER BY p.paid_at DESC, p.id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		var ref sql.NullString
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &p.AmountCents, &p.Currency, &p.Method,
			&p.Status, &ref, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ref.Valid {
			p.ProviderRef = &ref.String
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
