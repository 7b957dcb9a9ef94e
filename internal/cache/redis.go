// Package cache хранит счётчики ограничения частоты запросов в Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/content-studio/internal/config"
)

// Cache оборачивает клиент Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Hit увеличивает счётчик фиксированного окна key и возвращает его значение
// вместе со временем до сброса окна. Окно открывается первым попаданием.
func (c *Cache) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	const op = "cache.Hit"

	count, err := c.Db.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if count == 1 {
		if err := c.Db.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		return count, window, nil
	}

	ttl, err := c.Db.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if ttl < 0 {
		// ключ без срока жизни остался от прерванного запроса
		if err := c.Db.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		ttl = window
	}
	return count, ttl, nil
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}
