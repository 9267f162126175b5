// Package cache provides Redis-backed caching helpers. All helpers fail open:
// a nil client or a Redis error never blocks the request path.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client. It stays nil when Redis is unavailable,
// which disables caching without affecting correctness.
var Client *redis.Client

// InitRedis connects to Redis at the given address. Connection failure is
// logged, not fatal.
func InitRedis(addr string) {
	c := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, caching disabled: %v", addr, err)
		return
	}

	Client = c
}

// GetClient returns the shared Redis client, which may be nil.
func GetClient() *redis.Client {
	return Client
}
