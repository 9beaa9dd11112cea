package pattern

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

func mustMol(t *testing.T, smiles string) *chem.Molecule {
	t.Helper()
	m, err := chem.ParseSMILES(smiles)
	require.NoError(t, err, "parse %q", smiles)
	return m
}

func mustPattern(t *testing.T, query string) *Pattern {
	t.Helper()
	p, err := Compile(Definition{ID: "T-001", Name: "test", Class: ClassOpioid, Query: query})
	require.NoError(t, err, "compile %q", query)
	return p
}

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      bool
	}{
		{"chain in chain", "CCO", "CCCO", true},
		{"chain too long", "CCCCC", "CCC", false},
		{"ring in ring", "C1CCNCC1", "C1CCNCC1", true},
		{"substituted ring", "C1CCNCC1", "CC1CCN(C)CC1", true},
		{"aromatic query on aliphatic ring", "c1ccccc1", "C1CCCCC1", false},
		{"aromatic query on kekule benzene", "c1ccccc1", "C1=CC=CC=C1", true},
		{"aliphatic query on aromatic ring", "C1CCCCC1", "c1ccccc1", false},
		{"double bond required", "C=O", "CO", false},
		{"double bond present", "C=O", "CC(=O)C", true},
		{"wildcard atom", "*O", "CO", true},
		{"any bond", "C~O", "C=O", true},
		{"any bond single", "C~O", "CO", true},
		{"ring constraint hit", "c1ccccc1CC[NR]", "c1ccccc1CCN1CCCCC1", true},
		{"ring constraint miss", "c1ccccc1CC[NR]", "NCCc1ccccc1", false},
		{"charge mismatch", "[O-]C", "OC", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPattern(t, tt.query)
			got, err := p.Matches(context.Background(), mustMol(t, tt.candidate))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltinLibrary(t *testing.T) {
	lib := Builtin()
	assert.Equal(t, 37, lib.Len())

	p, ok := lib.Get("OPI-001")
	require.True(t, ok)
	assert.Equal(t, ClassOpioid, p.Class)

	_, ok = lib.Get("OPI-999")
	assert.False(t, ok)

	classes := map[Class]int{}
	for _, p := range lib.Patterns() {
		classes[p.Class]++
	}
	assert.Equal(t, 8, classes[ClassOpioid])
	assert.Equal(t, 6, classes[ClassBenzodiazepine])
	assert.Equal(t, 7, classes[ClassStimulant])
	assert.Equal(t, 6, classes[ClassCannabinoid])
	assert.Equal(t, 5, classes[ClassSedative])
	assert.Equal(t, 5, classes[ClassDissociative])
}

func TestNewLibraryValidation(t *testing.T) {
	_, err := NewLibrary(nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePatternLibraryEmpty))

	_, err = NewLibrary([]Definition{
		{ID: "A", Query: "CC"},
		{ID: "A", Query: "CO"},
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePatternDuplicateID))

	_, err = NewLibrary([]Definition{{ID: "A", Query: "C("}})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePatternCompileFailed))

	_, err = NewLibrary([]Definition{{ID: "", Query: "CC"}})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePatternInvalidQuery))
}

func TestScanKnownCompounds(t *testing.T) {
	m := NewMatcher(Builtin(), MatcherOptions{})

	// fentanyl carries both the anilidopiperidine and phenethyl scaffolds
	fentanyl := mustMol(t, "CCC(=O)N(c1ccccc1)C1CCN(CCc2ccccc2)CC1")
	res, err := m.Scan(context.Background(), fentanyl)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	ids := hitIDs(res)
	assert.Contains(t, ids, "OPI-001")
	assert.Contains(t, ids, "OPI-002")

	// diazepam
	diazepam := mustMol(t, "CN1c2ccc(Cl)cc2C(=NCC1=O)c1ccccc1")
	res, err = m.Scan(context.Background(), diazepam)
	require.NoError(t, err)
	assert.Contains(t, hitIDs(res), "BZD-001")

	// amphetamine
	amph := mustMol(t, "CC(N)Cc1ccccc1")
	res, err = m.Scan(context.Background(), amph)
	require.NoError(t, err)
	ids = hitIDs(res)
	assert.Contains(t, ids, "STI-001")
	assert.Contains(t, ids, "STI-002")

	// aspirin carries no flagged scaffold
	aspirin := mustMol(t, "CC(=O)Oc1ccccc1C(=O)O")
	res, err = m.Scan(context.Background(), aspirin)
	require.NoError(t, err)
	assert.False(t, res.Matched())

	// water is far below every pattern size
	res, err = m.Scan(context.Background(), mustMol(t, "O"))
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func hitIDs(res *ScanResult) []string {
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.PatternID)
	}
	return ids
}

func TestMatchTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := mustPattern(t, "NCCc1ccccc1")
	_, err := p.Matches(ctx, mustMol(t, "NCCc1ccccc1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMatchTimeout))
}

func TestScanCandidateSizeCap(t *testing.T) {
	m := NewMatcher(Builtin(), MatcherOptions{MaxCandidateAtoms: 5})
	_, err := m.Scan(context.Background(), mustMol(t, "CCCCCC"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMatchCandidateSize))
}

func TestScanParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMatcher(Builtin(), MatcherOptions{})
	_, err := m.Scan(ctx, mustMol(t, "NCCc1ccccc1"))
	assert.Error(t, err)
}
