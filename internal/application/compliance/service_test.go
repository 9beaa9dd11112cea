package compliance

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/quantnexusai/faves-v3-benchmark/internal/domain/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

type staticSource struct {
	snap  *domain.Snapshot
	loads int
	err   error
}

func (s *staticSource) Load(_ context.Context) (*domain.Snapshot, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *staticSource) Name() string { return "static" }

func testSource(version string) *staticSource {
	return &staticSource{snap: &domain.Snapshot{
		Version: version,
		Whitelist: []domain.RecordInput{
			{Name: "aspirin", SMILES: "CC(=O)Oc1ccccc1C(=O)O"},
			{Name: "caffeine", SMILES: "Cn1cnc2c1c(=O)n(C)c(=O)n2C"},
		},
		Controlled: []domain.RecordInput{
			{Name: "fentanyl", SMILES: "CCC(=O)N(c1ccccc1)C1CCN(CCc2ccccc2)CC1", Schedule: domain.ScheduleII},
			{Name: "sulfur mustard", SMILES: "ClCCSCCCl", CWCScheduled: true},
		},
	}}
}

func newTestService(t *testing.T, opts Options) Service {
	t.Helper()
	lib := pattern.Builtin()
	matcher := pattern.NewMatcher(lib, pattern.MatcherOptions{})
	svc, err := NewService(context.Background(), testSource("v1"), matcher, lib, opts)
	require.NoError(t, err)
	return svc
}

func TestServiceClassifyControlled(t *testing.T) {
	svc := newTestService(t, Options{})

	res, err := svc.Classify(context.Background(), &ClassifyInput{
		QueryID: "q-1",
		SMILES:  "CCC(=O)N(c1ccccc1)C1CCN(CCc2ccccc2)CC1",
	})
	require.NoError(t, err)
	assert.Equal(t, "q-1", res.QueryID)
	assert.Equal(t, domain.StatusControlled, res.Status)
	assert.True(t, res.IsDEAControlled)
	assert.True(t, res.IsScaffoldMatch)
	assert.Equal(t, 2, res.FlagCount)
	assert.Equal(t, "v1", res.SnapshotVersion)
}

func TestServiceClassifyWhitelisted(t *testing.T) {
	svc := newTestService(t, Options{})

	res, err := svc.Classify(context.Background(), &ClassifyInput{SMILES: "CC(=O)Oc1ccccc1C(=O)O"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCleared, res.Status)
	assert.Equal(t, 0, res.FlagCount)
}

func TestServiceClassifyParseError(t *testing.T) {
	metrics := prometheus.NewMetrics()
	svc := newTestService(t, Options{Metrics: metrics})

	_, err := svc.Classify(context.Background(), &ClassifyInput{SMILES: "C1CC"})
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
}

func TestServiceClassifyBatch(t *testing.T) {
	svc := newTestService(t, Options{})

	results, err := svc.ClassifyBatch(context.Background(), []*ClassifyInput{
		{SMILES: "CCO"},
		{SMILES: "ClCCSCCCl"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusNone, results[0].Status)
	assert.Equal(t, domain.StatusControlled, results[1].Status)
	assert.True(t, results[1].IsCWCScheduled)
}

func TestServiceClassifyBatchStopsOnError(t *testing.T) {
	svc := newTestService(t, Options{})

	results, err := svc.ClassifyBatch(context.Background(), []*ClassifyInput{
		{SMILES: "CCO"},
		{SMILES: "not smiles ("},
		{SMILES: "CCC"},
	})
	require.Error(t, err)
	assert.Len(t, results, 1)
}

func TestServiceReloadSwapsSnapshot(t *testing.T) {
	lib := pattern.Builtin()
	matcher := pattern.NewMatcher(lib, pattern.MatcherOptions{})
	source := testSource("v1")
	svc, err := NewService(context.Background(), source, matcher, lib, Options{})
	require.NoError(t, err)
	assert.Equal(t, "v1", svc.SnapshotVersion())

	source.snap = &domain.Snapshot{Version: "v2"}
	stats, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", stats.Version)
	assert.Equal(t, 0, stats.WhitelistSize)
	assert.Equal(t, "v2", svc.SnapshotVersion())
	assert.Equal(t, 2, source.loads)
}

func TestServiceNewFailsWhenSourceFails(t *testing.T) {
	lib := pattern.Builtin()
	matcher := pattern.NewMatcher(lib, pattern.MatcherOptions{})
	source := &staticSource{err: apperrors.New(apperrors.ErrCodeSnapshotUnavailable, "boom")}

	_, err := NewService(context.Background(), source, matcher, lib, Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSnapshotUnavailable, apperrors.GetCode(err))
}

func TestServiceMetricsObserved(t *testing.T) {
	metrics := prometheus.NewMetrics()
	svc := newTestService(t, Options{Metrics: metrics})

	_, err := svc.Classify(context.Background(), &ClassifyInput{SMILES: "CCO"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ClassificationsTotal.WithLabelValues("none")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.WhitelistSize))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ControlledSize))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SnapshotReloadsTotal))
}
