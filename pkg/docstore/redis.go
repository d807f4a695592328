package docstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a Backend storing each document under its key as a Redis string.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client as a document backend.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get implements Backend.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Put implements Backend.
func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete implements Backend.
func (r *Redis) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
