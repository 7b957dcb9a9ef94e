// Package password реализует хеширование и проверку паролей через bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost соответствует 10 раундам соли bcrypt.
const Cost = bcrypt.DefaultCost

// dummyHash используется, когда пользователь не найден: сравнение всё равно
// выполняется, и время ответа не выдаёт существование email.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("content-studio-dummy"), Cost)

// Hash возвращает bcrypt-хеш пароля.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt-хеш с введённым паролем.
// Возвращает nil, если пароль соответствует хешу.
func Compare(hash, password string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompareDummy тратит столько же времени, сколько Compare, и всегда завершается ошибкой.
func CompareDummy(password string) error {
	return Compare(string(dummyHash), password+"\x00")
}
