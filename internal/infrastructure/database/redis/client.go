package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Client wraps a go-redis client with the connection parameters already
// applied. It exists so higher layers never import go-redis directly.
type Client struct {
	rdb    *goredis.Client
	logger logging.Logger
}

// Connect opens a Redis connection and verifies it with a Ping.
func Connect(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis ping failed")
	}

	logger.Info("redis connected",
		logging.String("addr", cfg.Addr),
		logging.Int("db", cfg.DB),
	)
	return &Client{rdb: rdb, logger: logger}, nil
}

// Raw exposes the underlying go-redis client for tests.
func (c *Client) Raw() *goredis.Client {
	return c.rdb
}

// Ping verifies the connection is still healthy.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis ping failed")
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
