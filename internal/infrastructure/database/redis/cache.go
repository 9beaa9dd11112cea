package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

var (
	// ErrCacheMiss is returned when no verdict is cached for a canonical form.
	ErrCacheMiss = apperrors.New(apperrors.ErrCodeNotFound, "verdict cache miss")
)

// VerdictCache stores classification results keyed by canonical structure.
// The canonical form is the natural cache key: two inputs that normalize to
// the same structure always classify identically under the same snapshot,
// so entries are invalidated by purging the prefix on snapshot reload.
type VerdictCache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
}

// NewVerdictCache builds a VerdictCache over an established client.
func NewVerdictCache(client *Client, prefix string, defaultTTL time.Duration, logger logging.Logger) *VerdictCache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &VerdictCache{
		client:     client,
		logger:     logger,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

func (c *VerdictCache) key(canonical string) string {
	return c.prefix + canonical
}

// Get fetches a cached verdict for a canonical form. A miss is reported as
// ErrCacheMiss; any other error means Redis itself failed.
func (c *VerdictCache) Get(ctx context.Context, canonical string) (*compliance.Result, error) {
	data, err := c.client.rdb.Get(ctx, c.key(canonical)).Bytes()
	if err == goredis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "verdict cache read failed")
	}

	var result compliance.Result
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry behaves like a miss so the caller reclassifies.
		c.logger.Warn("discarding corrupt verdict cache entry",
			logging.String("canonical", canonical),
			logging.Err(err),
		)
		_ = c.client.rdb.Del(ctx, c.key(canonical)).Err()
		return nil, ErrCacheMiss
	}
	return &result, nil
}

// Set stores a verdict under the canonical form with the default TTL.
func (c *VerdictCache) Set(ctx context.Context, canonical string, result *compliance.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "verdict serialization failed")
	}
	if err := c.client.rdb.Set(ctx, c.key(canonical), data, c.defaultTTL).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "verdict cache write failed")
	}
	return nil
}

// Delete removes a single cached verdict.
func (c *VerdictCache) Delete(ctx context.Context, canonical string) error {
	if err := c.client.rdb.Del(ctx, c.key(canonical)).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "verdict cache delete failed")
	}
	return nil
}

// Purge removes every cached verdict under the configured prefix. Called
// after a snapshot reload, since stale verdicts may reference retired
// records.
func (c *VerdictCache) Purge(ctx context.Context) (int64, error) {
	var removed int64
	iter := c.client.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "verdict cache purge failed")
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "verdict cache scan failed")
	}
	if removed > 0 {
		c.logger.Info("verdict cache purged", logging.Int64("removed", removed))
	}
	return removed, nil
}
