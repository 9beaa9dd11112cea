package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canon(t *testing.T, smiles string) string {
	t.Helper()
	m, err := ParseSMILES(smiles)
	require.NoError(t, err, "parse %q", smiles)
	return CanonicalSMILES(m)
}

func TestCanonicalDeterminism(t *testing.T) {
	inputs := []string{
		"CCO",
		"c1ccccc1",
		"CC(=O)Oc1ccccc1C(=O)O",
		"CCC(=O)N(c1ccccc1)C1CCN(CCc2ccccc2)CC1",
	}
	for _, in := range inputs {
		first := canon(t, in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, canon(t, in), "input %q run %d", in, i)
		}
	}
}

func TestCanonicalPermutationInvariance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"ethanol", "CCO", "OCC"},
		{"acetic acid", "CC(=O)O", "OC(C)=O"},
		{"toluene atom order", "Cc1ccccc1", "c1ccc(C)cc1"},
		{"aspirin", "CC(=O)Oc1ccccc1C(=O)O", "OC(=O)c1ccccc1OC(C)=O"},
		{"isopentane", "CCC(C)C", "CC(C)CC"},
		{"piperidine start atom", "C1CCNCC1", "N1CCCCC1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, canon(t, tt.a), canon(t, tt.b))
		})
	}
}

func TestCanonicalKekuleEquivalence(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"benzene", "C1=CC=CC=C1", "c1ccccc1"},
		{"toluene", "CC1=CC=CC=C1", "Cc1ccccc1"},
		{"pyridine", "C1=CC=NC=C1", "c1ccncc1"},
		{"pyrrole", "C1=CC=CN1", "c1cc[nH]c1"},
		{"naphthalene", "C1=CC=C2C=CC=CC2=C1", "c1ccc2ccccc2c1"},
		{"phenol", "OC1=CC=CC=C1", "Oc1ccccc1"},
		{"2-pyridone", "O=C1C=CC=CN1", "O=c1cccc[nH]1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, canon(t, tt.a), canon(t, tt.b))
		})
	}
}

func TestCanonicalDistinguishesStructures(t *testing.T) {
	pairs := [][2]string{
		{"CCO", "CCC"},
		{"c1ccccc1", "C1CCCCC1"},
		{"CC(=O)O", "CCC=O"},
		{"C1CCNCC1", "C1CCOCC1"},
	}
	for _, p := range pairs {
		assert.NotEqual(t, canon(t, p[0]), canon(t, p[1]), "%q vs %q", p[0], p[1])
	}
}

func TestCanonicalFragmentOrder(t *testing.T) {
	assert.Equal(t, canon(t, "[Na+].[Cl-]"), canon(t, "[Cl-].[Na+]"))
	assert.Contains(t, canon(t, "[Na+].[Cl-]"), ".")
}

func TestCanonicalRoundTrip(t *testing.T) {
	// serializing the canonical form and parsing it back is a fixpoint
	inputs := []string{
		"CC(=O)Oc1ccccc1C(=O)O",
		"CN1CCC[C@H]1c1cccnc1",
		"O=C1CN=C(c2ccccc2)c2ccccc2N1",
		"[O-]S(=O)(=O)c1ccccc1",
		"C1=CC=CN1",
		// rings that aromatize around a carbonyl
		"O=C1C=CC=CN1",
		"Cn1cnc2c1c(=O)n(C)c(=O)n2C",
		"O=c1ncnc2ccccc12",
	}
	for _, in := range inputs {
		first := canon(t, in)
		assert.Equal(t, first, canon(t, first), "input %q", in)
	}
}

func TestCanonicalBracketAtoms(t *testing.T) {
	assert.Contains(t, canon(t, "c1cc[nH]c1"), "[nH]")
	assert.Contains(t, canon(t, "[13CH4]"), "[13CH4]")
	assert.Contains(t, canon(t, "[NH4+]"), "[NH4+]")
}

func TestNormalize(t *testing.T) {
	smiles, fp, err := Normalize("C1=CC=CC=C1")
	require.NoError(t, err)
	smiles2, fp2, err := Normalize("c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, smiles, smiles2)
	assert.Equal(t, fp, fp2)
	assert.Positive(t, fp.PopCount())

	_, _, err = Normalize("not a molecule")
	assert.Error(t, err)
}
