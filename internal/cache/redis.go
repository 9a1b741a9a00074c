// Package cache хранит в Redis быстро устаревающие агрегаты чтения:
// дневную статистику генерации и список последних пачек. Кэш необязателен —
// обработчики работают и без него, обращаясь напрямую к Postgres.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baysidecampaign/signup-engine/internal/config"
)

// TTL агрегатов чтения. Статистика дня пересчитывается каждым циклом,
// поэтому держим её недолго.
const (
	StatsTTL   = time.Minute
	BatchesTTL = time.Minute
)

// StatsKey возвращает ключ дневной статистики для указанной даты (UTC).
func StatsKey(day time.Time) string {
	return "stats:" + day.UTC().Format("2006-01-02")
}

// BatchesKey возвращает ключ списка последних пачек с данным лимитом.
func BatchesKey(limit int) string {
	return fmt.Sprintf("batches:%d", limit)
}

type Cache struct {
	Db *redis.Client
}

func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}
