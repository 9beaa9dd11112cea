package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

func newTestCache(t *testing.T) (*VerdictCache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	client := &Client{rdb: db, logger: logging.NewNop()}
	cache := NewVerdictCache(client, "faves:verdict:", time.Hour, logging.NewNop())
	return cache, mock
}

func TestVerdictCacheSetAndGet(t *testing.T) {
	cache, mock := newTestCache(t)

	result := &compliance.Result{
		Canonical: "CCO",
		Status:    compliance.StatusNone,
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	mock.ExpectSet("faves:verdict:CCO", data, time.Hour).SetVal("OK")
	require.NoError(t, cache.Set(context.Background(), "CCO", result))

	mock.ExpectGet("faves:verdict:CCO").SetVal(string(data))
	got, err := cache.Get(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, result.Canonical, got.Canonical)
	assert.Equal(t, result.Status, got.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerdictCacheMiss(t *testing.T) {
	cache, mock := newTestCache(t)

	mock.ExpectGet("faves:verdict:CCO").RedisNil()
	_, err := cache.Get(context.Background(), "CCO")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerdictCacheCorruptEntry(t *testing.T) {
	cache, mock := newTestCache(t)

	mock.ExpectGet("faves:verdict:CCO").SetVal("{not json")
	mock.ExpectDel("faves:verdict:CCO").SetVal(1)

	_, err := cache.Get(context.Background(), "CCO")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerdictCacheDelete(t *testing.T) {
	cache, mock := newTestCache(t)

	mock.ExpectDel("faves:verdict:CCO").SetVal(1)
	assert.NoError(t, cache.Delete(context.Background(), "CCO"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerdictCacheReadError(t *testing.T) {
	cache, mock := newTestCache(t)

	mock.ExpectGet("faves:verdict:CCO").SetErr(assert.AnError)
	_, err := cache.Get(context.Background(), "CCO")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCacheError, apperrors.GetCode(err))
}
