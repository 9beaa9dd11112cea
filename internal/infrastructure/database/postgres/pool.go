// Package postgres manages the PostgreSQL connection pool and schema
// migrations for the reference snapshot store.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// connectTimeout bounds the initial ping.
const connectTimeout = 5 * time.Second

// BuildDSN renders cfg as a postgres:// connection URL.
func BuildDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Connect opens a pgx pool against cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	pcfg, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "parse database config")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "database connection failed")
	}

	logger.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)
	return pool, nil
}
