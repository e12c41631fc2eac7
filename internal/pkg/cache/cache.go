package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis cache server. The
// storefront uses it as a fast-path duplicate check for webhook deliveries
// and as backing storage for the checkout rate limiter.
func SetupCache(cfg config.CacheConfig) {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Test the connection
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to Redis cache: %v", err)
	} else {
		log.Printf("Successfully connected to Redis cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// SetNX stores a value only if the key does not exist yet and reports
// whether it was set. Used as the cheap duplicate-delivery short circuit
// in front of the database unique index.
func SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	return GetClient().SetNX(ctx, key, value, expiration).Result()
}

// Delete removes a value from the cache by key. Used to release the
// dedupe marker when the backing insert fails.
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}
