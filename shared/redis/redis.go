package redis

import (
	"context"
	"time"

	"chatmood/backend/pkg/config"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// RedisClient wraps the go-redis client for report caching
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects using the configured address
func NewRedisClient() *RedisClient {
	cfg := config.Get()
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: "", // no password by default
		DB:       0,  // use default DB
	})
	return &RedisClient{client: client}
}

func (r *RedisClient) Set(key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisClient) Get(key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisClient) Del(key string) error {
	return r.client.Del(ctx, key).Err()
}

// IsNotFound reports whether an error is a cache miss
func IsNotFound(err error) bool {
	return err == redis.Nil
}

// Ping verifies the connection; used by the health checker
func (r *RedisClient) Ping() error {
	return r.client.Ping(ctx).Err()
}
