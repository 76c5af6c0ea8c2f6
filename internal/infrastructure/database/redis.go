package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient backs the magic-link tokens, crush rate limits and session
// events.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}

	log.Info("connected to redis", "addr", cfg.GetAddr(), "db", cfg.DB)
	return client, nil
}
