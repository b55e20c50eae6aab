package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SlpAus/top-movies-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

// OpenRedis 初始化与Redis的连接。未启用时返回 (nil, nil)。
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("无法连接到Redis: %w", err)
	}

	slog.Info("Redis 连接成功", "address", cfg.Address)
	return rdb, nil
}
