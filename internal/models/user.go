// Package models содержит доменные структуры сервиса: пользователей, контент,
// подписки, платежи и отзывы, а также общие ошибки уровня бизнес-логики.
package models

import "time"

// User представляет зарегистрированного пользователя.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile — пользователь вместе с его текущим тарифом, отдаётся при логине.
type Profile struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	SubscriptionType Tier   `json:"subscriptionType"`
	GenerationsLimit int    `json:"generationsLimit"`
}

// Session возвращается при успешном входе.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest — тело запроса изменения профиля. Пустые поля не меняются.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=50,username"`
	Email    string `json:"email" validate:"omitempty,email"`
}
