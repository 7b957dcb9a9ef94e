// Package assetstore сохраняет сгенерированные файлы и выдаёт их постоянные публичные URL.
package assetstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/magabrotheeeer/content-studio/internal/config"
)

// Store хранит сгенерированные файлы.
type Store interface {
	// Put сохраняет data под ключом key и возвращает публичный URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete удаляет объект по ключу. Отсутствующий объект ошибкой не считается.
	Delete(ctx context.Context, key string) error
	// KeyFromURL возвращает ключ объекта, если url выдан этим хранилищем.
	KeyFromURL(url string) (string, bool)
}

const maxSlugLen = 48

// ObjectKey строит ключ generated/<user>/<slug>-<uuid><ext>.
func ObjectKey(userID int64, description, ext string) string {
	s := slug.Make(description)
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		s = "asset"
	}
	return fmt.Sprintf("generated/%d/%s-%s%s", userID, s, uuid.NewString(), ext)
}

// New выбирает реализацию по cfg.Driver. publicURL — внешний адрес сервиса,
// под которым локальные файлы раздаются по /uploads/.
func New(ctx context.Context, cfg config.AssetStorage, publicURL string) (Store, error) {
	const op = "assetstore.New"

	switch cfg.Driver {
	case "", "local":
		base := cfg.PublicBaseURL
		if base == "" {
			base = strings.TrimRight(publicURL, "/") + "/uploads"
		}
		return NewLocalStore(cfg.LocalDir, base)
	case "s3":
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}

func keyFromURL(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
