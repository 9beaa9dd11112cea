// Package compliance provides the application-level classification service.
// It wires the domain pipeline to the verdict cache, the audit trail and the
// metrics registry, and owns snapshot reloads.
package compliance

import (
	"context"
	"errors"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	domain "github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/database/redis"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/messaging/kafka"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/prometheus"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/snapshot"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// ClassifyInput carries one classification request.
type ClassifyInput struct {
	QueryID   string
	SMILES    string
	SkipCache bool
}

// ReloadStats summarizes a snapshot reload.
type ReloadStats struct {
	Version        string `json:"version"`
	WhitelistSize  int    `json:"whitelist_size"`
	ControlledSize int    `json:"controlled_size"`
	CachePurged    int64  `json:"cache_purged"`
}

// Service is the application surface over the classification pipeline.
type Service interface {
	Classify(ctx context.Context, input *ClassifyInput) (*domain.Result, error)
	ClassifyBatch(ctx context.Context, inputs []*ClassifyInput) ([]*domain.Result, error)
	Reload(ctx context.Context) (*ReloadStats, error)
	SnapshotVersion() string
	Close() error
}

type service struct {
	classifier *domain.Classifier
	library    *pattern.Library
	source     snapshot.Source
	cache      *redis.VerdictCache
	audit      *kafka.AuditProducer
	metrics    *prometheus.Metrics
	logger     logging.Logger
}

// Options carries the optional collaborators. Any nil field disables that
// concern; the pipeline itself never depends on them.
type Options struct {
	Cache   *redis.VerdictCache
	Audit   *kafka.AuditProducer
	Metrics *prometheus.Metrics
	Logger  logging.Logger
}

// NewService builds the classification service. The initial snapshot is
// loaded from source before the service is returned, so a non-nil Service is
// always ready to classify.
func NewService(ctx context.Context, source snapshot.Source, matcher *pattern.Matcher, lib *pattern.Library, opts Options) (Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &service{
		library: lib,
		source:  source,
		cache:   opts.Cache,
		audit:   opts.Audit,
		metrics: opts.Metrics,
		logger:  logger,
	}
	s.classifier = domain.NewClassifier(nil, matcher, logger)

	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PatternCount.Set(float64(lib.Len()))
	}
	return s, nil
}

func (s *service) Classify(ctx context.Context, input *ClassifyInput) (*domain.Result, error) {
	canonical, _, err := chem.Normalize(input.SMILES)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ParseFailuresTotal.WithLabelValues(string(apperrors.GetCode(err))).Inc()
		}
		return nil, err
	}

	if s.cache != nil && !input.SkipCache {
		cached, err := s.cache.Get(ctx, canonical)
		switch {
		case err == nil:
			s.observe(ctx, cached, true)
			cached.QueryID = input.QueryID
			cached.Input = input.SMILES
			return cached, nil
		case errors.Is(err, redis.ErrCacheMiss):
			if s.metrics != nil {
				s.metrics.CacheMissesTotal.Inc()
			}
		default:
			// A broken cache degrades to a reclassification, never a failure.
			s.logger.Warn("verdict cache unavailable", logging.Err(err))
		}
	}

	result, err := s.classifier.Classify(ctx, input.SMILES)
	if err != nil {
		return nil, err
	}
	result.QueryID = input.QueryID

	if s.cache != nil && !input.SkipCache {
		if err := s.cache.Set(ctx, canonical, result); err != nil {
			s.logger.Warn("verdict cache write failed", logging.Err(err))
		}
	}

	s.observe(ctx, result, false)
	return result, nil
}

func (s *service) ClassifyBatch(ctx context.Context, inputs []*ClassifyInput) ([]*domain.Result, error) {
	results := make([]*domain.Result, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return results, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "batch classification cancelled")
		}
		result, err := s.Classify(ctx, input)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// observe records metrics and publishes the audit event for one verdict.
func (s *service) observe(ctx context.Context, result *domain.Result, cacheHit bool) {
	if s.metrics != nil {
		s.metrics.ObserveClassification(string(result.Status), result.Elapsed, result.Degraded)
		if cacheHit {
			s.metrics.CacheHitsTotal.Inc()
		}
		for _, hit := range result.ScaffoldHits {
			s.metrics.ScaffoldHitsTotal.WithLabelValues(string(hit.Class)).Inc()
		}
	}
	if s.audit != nil {
		if err := s.audit.Publish(ctx, kafka.NewAuditEvent(result, cacheHit)); err != nil {
			if s.metrics != nil {
				s.metrics.AuditPublishFailuresTotal.Inc()
			}
			s.logger.Warn("audit publish failed",
				logging.String("canonical", result.Canonical), logging.Err(err))
		}
	}
}

// Reload loads a fresh snapshot, rebuilds the exact-match index and swaps it
// in. The verdict cache is purged afterwards so no verdict survives a
// reference-data change.
func (s *service) Reload(ctx context.Context) (*ReloadStats, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := domain.BuildIndex(snap)
	if err != nil {
		return nil, err
	}
	s.classifier.SwapIndex(idx)

	stats := &ReloadStats{
		Version:        idx.Version(),
		WhitelistSize:  idx.WhitelistSize(),
		ControlledSize: idx.ControlledSize(),
	}
	if s.cache != nil {
		purged, err := s.cache.Purge(ctx)
		if err != nil {
			s.logger.Warn("verdict cache purge failed after reload", logging.Err(err))
		}
		stats.CachePurged = purged
	}
	if s.metrics != nil {
		s.metrics.SetIndexSizes(stats.WhitelistSize, stats.ControlledSize)
		s.metrics.SnapshotReloadsTotal.Inc()
	}

	s.logger.Info("snapshot loaded",
		logging.String("source", s.source.Name()),
		logging.String("version", stats.Version),
		logging.Int("whitelist", stats.WhitelistSize),
		logging.Int("controlled", stats.ControlledSize),
	)
	return stats, nil
}

func (s *service) SnapshotVersion() string {
	if idx := s.classifier.Index(); idx != nil {
		return idx.Version()
	}
	return ""
}

// Close releases the audit producer. The cache client is owned by the caller
// since it may be shared.
func (s *service) Close() error {
	if s.audit != nil {
		return s.audit.Close()
	}
	return nil
}

