package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/config"
	"github.com/vietanh2810/campsite-api/internal/domain"
)

const (
	defaultTTL = 10 * time.Minute
	scanCount  = 100
)

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, conf *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	zap.L().Info("redis ready", zap.String("addr", conf.Addr))

	return client, nil
}

// CalendarCache keeps rendered calendar months as JSON strings.
type CalendarCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCalendarCache(client redis.Cmdable, ttl time.Duration) *CalendarCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &CalendarCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CalendarCache) Get(ctx context.Context, key string) ([]domain.CalendarDay, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("c.client.Get -> %w", err)
	}

	var days []domain.CalendarDay
	if err = json.Unmarshal(raw, &days); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return days, true, nil
}

func (c *CalendarCache) Set(ctx context.Context, key string, days []domain.CalendarDay) error {
	raw, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}
	if err = c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("c.client.Set -> %w", err)
	}

	return nil
}

func (c *CalendarCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("c.client.Del -> %w", err)
	}

	return nil
}

// DeletePrefix removes every key starting with prefix, walking them with SCAN.
func (c *CalendarCache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanCount).Result()
		if err != nil {
			return fmt.Errorf("c.client.Scan -> %w", err)
		}
		if err = c.Delete(ctx, keys...); err != nil {
			return err
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
