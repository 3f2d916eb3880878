package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const loginAttemptPrefix = "login_attempts:"

// Repository defines methods for interacting with Redis key-values
type Repository interface {
	Ping(ctx context.Context) error
	IncrLoginAttempts(ctx context.Context, identifier string, window time.Duration) (int64, error)
	ResetLoginAttempts(ctx context.Context, identifier string) error
}

type redis struct {
	client *goredis.Client
}

// NewRepository returns a Redis Repository. A nil client turns every call
// into a no-op.
func NewRepository(client *goredis.Client) Repository {
	return &redis{client: client}
}

func (r *redis) Ping(ctx context.Context) error {
	if r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}

// IncrLoginAttempts bumps the attempt counter and returns the new value. The
// window starts at the first attempt and is not extended by later ones.
func (r *redis) IncrLoginAttempts(ctx context.Context, identifier string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	key := loginAttemptPrefix + identifier

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *redis) ResetLoginAttempts(ctx context.Context, identifier string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, loginAttemptPrefix+identifier).Err()
}
