package compliance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

const (
	smilesFentanyl    = "CCC(=O)N(c1ccccc1)C1CCN(CCc2ccccc2)CC1"
	smilesAspirin     = "CC(=O)Oc1ccccc1C(=O)O"
	smilesAmphetamine = "CC(N)Cc1ccccc1"
	smilesMustard     = "ClCCSCCCl"
	smilesEthanol     = "CCO"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version: "test-1",
		Whitelist: []RecordInput{
			{Name: "aspirin", SMILES: smilesAspirin},
			{Name: "amphetamine", SMILES: smilesAmphetamine},
			{Name: "ibuprofen", SMILES: "CC(C)Cc1ccc(cc1)C(C)C(=O)O"},
		},
		Controlled: []RecordInput{
			{Name: "fentanyl", SMILES: smilesFentanyl, Schedule: ScheduleII},
			{Name: "diazepam", SMILES: "CN1c2ccc(Cl)cc2C(=NCC1=O)c1ccccc1", Schedule: ScheduleIV},
			{Name: "sulfur mustard", SMILES: smilesMustard, CWCScheduled: true},
		},
	}
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	idx, err := BuildIndex(testSnapshot())
	require.NoError(t, err)
	return NewClassifier(idx, pattern.NewMatcher(pattern.Builtin(), pattern.MatcherOptions{}), nil)
}

func TestClassifyControlledWithScaffold(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify(context.Background(), smilesFentanyl)
	require.NoError(t, err)

	assert.Equal(t, StatusControlled, res.Status)
	assert.True(t, res.IsDEAControlled)
	assert.Equal(t, ScheduleII, res.Schedule)
	assert.True(t, res.IsScaffoldMatch)
	assert.False(t, res.IsFDABanned)
	assert.False(t, res.IsCWCScheduled)
	assert.Equal(t, 2, res.FlagCount)
	assert.Equal(t, "fentanyl", res.MatchedName)
	assert.Equal(t, "test-1", res.SnapshotVersion)
	assert.False(t, res.Degraded)
}

func TestClassifyWhitelistShortCircuits(t *testing.T) {
	c := newTestClassifier(t)

	// amphetamine carries stimulant scaffolds, but the whitelist is
	// authoritative and the scan never runs
	res, err := c.Classify(context.Background(), smilesAmphetamine)
	require.NoError(t, err)

	assert.Equal(t, StatusCleared, res.Status)
	assert.True(t, res.IsWhitelisted)
	assert.False(t, res.IsScaffoldMatch)
	assert.Empty(t, res.ScaffoldHits)
	assert.Equal(t, 0, res.FlagCount)
	assert.Equal(t, "amphetamine", res.MatchedName)
}

func TestClassifyWhitelistBeatsControlledList(t *testing.T) {
	// the same molecule forced into both lists: tier 1 wins
	idx, err := BuildIndex(&Snapshot{
		Version:    "test-both",
		Whitelist:  []RecordInput{{Name: "amphetamine", SMILES: smilesAmphetamine}},
		Controlled: []RecordInput{{Name: "amphetamine", SMILES: smilesAmphetamine, Schedule: ScheduleII}},
	})
	require.NoError(t, err)
	c := NewClassifier(idx, pattern.NewMatcher(pattern.Builtin(), pattern.MatcherOptions{}), nil)

	res, err := c.Classify(context.Background(), smilesAmphetamine)
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, res.Status)
	assert.True(t, res.IsWhitelisted)
	assert.False(t, res.IsDEAControlled)
	assert.Empty(t, res.Schedule)
	assert.False(t, res.IsScaffoldMatch)
	assert.Equal(t, 0, res.FlagCount)
}

func TestClassifyMonotonicUnderPatternSuperset(t *testing.T) {
	idx, err := BuildIndex(testSnapshot())
	require.NoError(t, err)

	// growing the library never lowers the flag count of a fixed candidate
	defs := pattern.BuiltinDefinitions()
	prev := -1
	for _, size := range []int{1, len(defs) / 2, len(defs)} {
		lib, err := pattern.NewLibrary(defs[:size])
		require.NoError(t, err)
		c := NewClassifier(idx, pattern.NewMatcher(lib, pattern.MatcherOptions{}), nil)

		res, err := c.Classify(context.Background(), "CC(N)Cc1ccc(F)cc1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.FlagCount, prev, "library size %d", size)
		prev = res.FlagCount
	}

	// the full library does flag the stimulant scaffold
	assert.Equal(t, 1, prev)
}

func TestClassifyRepeatIsIdentical(t *testing.T) {
	c := newTestClassifier(t)

	first, err := c.Classify(context.Background(), smilesFentanyl)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), smilesFentanyl)
	require.NoError(t, err)

	// Elapsed is wall clock and excluded from the comparison
	first.Elapsed, second.Elapsed = 0, 0
	assert.Equal(t, first, second)
}

func TestClassifyWhitelistMatchesByCanonicalForm(t *testing.T) {
	c := newTestClassifier(t)

	// aspirin written in a different atom order still clears
	res, err := c.Classify(context.Background(), "OC(=O)c1ccccc1OC(C)=O")
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, res.Status)
	assert.Equal(t, "aspirin", res.MatchedName)
}

func TestClassifyScaffoldOnlyIsReview(t *testing.T) {
	c := newTestClassifier(t)

	// 4-fluoroamphetamine: not in either list, stimulant scaffold
	res, err := c.Classify(context.Background(), "CC(N)Cc1ccc(F)cc1")
	require.NoError(t, err)

	assert.Equal(t, StatusReview, res.Status)
	assert.False(t, res.IsDEAControlled)
	assert.True(t, res.IsScaffoldMatch)
	assert.Equal(t, 1, res.FlagCount)
	assert.NotEmpty(t, res.ScaffoldHits)
}

func TestClassifyCWCScheduled(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify(context.Background(), smilesMustard)
	require.NoError(t, err)
	assert.Equal(t, StatusControlled, res.Status)
	assert.False(t, res.IsDEAControlled)
	assert.True(t, res.IsCWCScheduled)
	assert.Equal(t, 1, res.FlagCount)
}

func TestClassifyBenignUnknownIsNone(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify(context.Background(), smilesEthanol)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, res.Status)
	assert.Equal(t, 0, res.FlagCount)
	assert.False(t, res.IsWhitelisted)
}

func TestClassifyMalformedInput(t *testing.T) {
	c := newTestClassifier(t)

	_, err := c.Classify(context.Background(), "C1CC(")
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))

	_, err = c.Classify(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeParseEmptyStructure))
}

func TestClassifyAmbiguousHashIsWarnedNonMatch(t *testing.T) {
	canonical, _, err := chem.Normalize(smilesEthanol)
	require.NoError(t, err)

	var wrong chem.Fingerprint
	wrong[0] = 0xff

	idx, err := BuildIndex(&Snapshot{
		Version: "test-ambiguous",
		Controlled: []RecordInput{{
			Name:           "colliding record",
			Canonical:      canonical,
			FingerprintHex: wrong.Hex(),
			Schedule:       ScheduleI,
		}},
	})
	require.NoError(t, err)

	c := NewClassifier(idx, pattern.NewMatcher(pattern.Builtin(), pattern.MatcherOptions{}), nil)
	res, err := c.Classify(context.Background(), smilesEthanol)
	require.NoError(t, err)

	assert.False(t, res.IsDEAControlled)
	assert.Equal(t, StatusNone, res.Status)
	require.NotEmpty(t, res.Warnings)
	// the warning quantifies how close the colliding fingerprints are
	assert.Contains(t, res.Warnings[0], "tanimoto")
}

func TestClassifyWithoutIndex(t *testing.T) {
	c := NewClassifier(nil, pattern.NewMatcher(pattern.Builtin(), pattern.MatcherOptions{}), nil)
	_, err := c.Classify(context.Background(), smilesEthanol)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIndexNotLoaded))
}

func TestSwapIndex(t *testing.T) {
	c := newTestClassifier(t)

	idx, err := BuildIndex(&Snapshot{
		Version:   "test-2",
		Whitelist: []RecordInput{{Name: "ethanol", SMILES: smilesEthanol}},
	})
	require.NoError(t, err)
	c.SwapIndex(idx)

	res, err := c.Classify(context.Background(), smilesEthanol)
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, res.Status)
	assert.Equal(t, "test-2", res.SnapshotVersion)
}

func TestBuildIndexValidation(t *testing.T) {
	_, err := BuildIndex(&Snapshot{
		Whitelist: []RecordInput{{Name: "broken", SMILES: "C1CC("}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIndexLoadFailed))

	_, err = BuildIndex(&Snapshot{
		Controlled: []RecordInput{{Name: "empty"}},
	})
	require.Error(t, err)

	// duplicates keep the first record
	idx, err := BuildIndex(&Snapshot{
		Whitelist: []RecordInput{
			{Name: "first", SMILES: smilesEthanol},
			{Name: "second", SMILES: "OCC"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.WhitelistSize())

	canonical, fp, err := chem.Normalize(smilesEthanol)
	require.NoError(t, err)
	rec, err := idx.LookupWhitelist(canonical, fp)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "first", rec.Name)
}
