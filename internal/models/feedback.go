package models

import "time"

// Feedback — отзыв пользователя или анонимного посетителя.
type Feedback struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type FeedbackRequest struct {
	UserID  *int64 `json:"userId" validate:"omitempty,gt=0"`
	Message string `json:"message" validate:"required,max=5000"`
}
