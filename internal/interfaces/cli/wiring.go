package cli

import (
	"context"

	appcompliance "github.com/quantnexusai/faves-v3-benchmark/internal/application/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/database/postgres"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/snapshot"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// buildSource constructs the configured snapshot source. The returned
// cleanup releases any connection the source holds.
func buildSource(ctx context.Context, cfg *config.Config, logger logging.Logger) (snapshot.Source, func(), error) {
	switch cfg.Snapshot.Source {
	case "csv":
		return snapshot.NewCSVSource(cfg.Snapshot.Dir, cfg.Snapshot.Version), func() {}, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return snapshot.NewPostgresSource(pool), pool.Close, nil
	case "minio":
		src, err := snapshot.NewMinIOSource(cfg.MinIO, cfg.Snapshot.Version)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	default:
		return nil, nil, apperrors.Newf(apperrors.ErrCodeValidation,
			"unknown snapshot source %q", cfg.Snapshot.Source)
	}
}

// buildLibrary compiles the scaffold library, replacing the built-in set
// when a pattern file is configured.
func buildLibrary(cfg *config.Config) (*pattern.Library, error) {
	if cfg.Matcher.PatternFile == "" {
		return pattern.Builtin(), nil
	}
	defs, err := snapshot.LoadPatternDefinitions(cfg.Matcher.PatternFile)
	if err != nil {
		return nil, err
	}
	return pattern.NewLibrary(defs)
}

// buildCoreService wires a classification service without the optional
// cache, audit and metrics collaborators. Used by the one-shot commands.
func buildCoreService(ctx context.Context, cfg *config.Config, logger logging.Logger) (appcompliance.Service, func(), error) {
	lib, err := buildLibrary(cfg)
	if err != nil {
		return nil, nil, err
	}
	matcher := pattern.NewMatcher(lib, pattern.MatcherOptions{
		Timeout:           cfg.Matcher.PatternTimeout,
		MaxCandidateAtoms: cfg.Matcher.MaxCandidateAtoms,
	})
	source, cleanup, err := buildSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := appcompliance.NewService(ctx, source, matcher, lib, appcompliance.Options{Logger: logger})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
