package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache реализует domain.Cache через Redis SETNX.
// Используется планировщиком, чтобы часовые задачи не дублировались
// между репликами.
type RedisCache struct {
	client *redis.Client
}

// NewRedis создаёт кэш поверх готового клиента.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Once выполняет функцию, если ключ ещё не захвачен другой репликой.
// При ошибке ключ снимается, чтобы следующий запуск повторил работу.
func (c *RedisCache) Once(key string, ttl time.Duration, fn func() error) error {
	ctx := context.Background()
	acquired, err := c.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("cache: захват ключа %s: %w", key, err)
	}
	if !acquired {
		return nil
	}
	if err := fn(); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return err
	}
	return nil
}
