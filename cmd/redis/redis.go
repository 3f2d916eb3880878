package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammadheryan/artisanhub/cmd/config"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// New builds a Redis client from configuration. The client dials lazily, so
// an unreachable server is reported by Ping, not here.
func New(cfg *config.Config) (*redis.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided")
	}

	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}), nil
}

// Ping verifies connectivity once at startup.
func Ping(ctx context.Context, c *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("unable to ping redis at %s: %w", c.Options().Addr, err)
	}
	return nil
}
