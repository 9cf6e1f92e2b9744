// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisOptions identifies one Redis database.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings. An empty address returns (nil, nil):
// callers treat that as "cache disabled".
func NewRedisClient(opts RedisOptions) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (cache) at %s: %w", opts.Addr, err)
	}
	return client, nil
}
