// Package jwt реализует выпуск и разбор JWT-токенов сессии.
//
// В токен кладутся только идентификатор и email пользователя; всё остальное
// middleware заново читает из хранилища на каждом запросе.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired возвращается ParseToken для просроченного токена.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid возвращается ParseToken для любого другого дефекта токена.
var ErrTokenInvalid = errors.New("invalid token")

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	GenerateToken(userID int64, email string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims описывает данные, хранящиеся в JWT.
type CustomClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// MakerImpl подписывает токены HS256 секретным ключом.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// GenerateToken создаёт подписанный токен для пользователя.
func (m *MakerImpl) GenerateToken(userID int64, email string) (string, error) {
	const op = "jwt.GenerateToken"
	if m.secretKey == "" {
		return "", fmt.Errorf("%s: empty secret key", op)
	}
	now := m.now()
	claims := CustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена.
// Ошибка всегда оборачивает ErrTokenExpired или ErrTokenInvalid.
func (m *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
