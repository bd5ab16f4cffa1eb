package config

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds and pings a redis client from an address or URL.
// Callers treat an empty addr as "no redis": the in-memory panel store
// is used instead.
func NewRedis(ctx context.Context, addr string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
	}

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return client, nil
}
