// Package redis wires the refresh-token store's Redis connection.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to the Redis instance named by the configuration
// and verifies it is reachable before returning.
func NewClient(cfg *config.Config) *redis.Client {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	if cfg.RedisTLS {
		options.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := redis.NewClient(options)

	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return client
}
