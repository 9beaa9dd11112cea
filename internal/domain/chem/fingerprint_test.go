package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fpOf(t *testing.T, smiles string) Fingerprint {
	t.Helper()
	m, err := ParseSMILES(smiles)
	require.NoError(t, err)
	return CircularFingerprint(m)
}

func TestFingerprintInvariance(t *testing.T) {
	assert.Equal(t, fpOf(t, "CCO"), fpOf(t, "OCC"))
	assert.Equal(t, fpOf(t, "c1ccccc1"), fpOf(t, "C1=CC=CC=C1"))
	assert.Equal(t, fpOf(t, "CC(=O)Oc1ccccc1C(=O)O"), fpOf(t, "OC(=O)c1ccccc1OC(C)=O"))
}

func TestFingerprintDiscrimination(t *testing.T) {
	assert.NotEqual(t, fpOf(t, "CCO"), fpOf(t, "CCC"))
	assert.NotEqual(t, fpOf(t, "c1ccccc1"), fpOf(t, "C1CCCCC1"))
}

func TestFingerprintHexRoundTrip(t *testing.T) {
	fp := fpOf(t, "CC(=O)Oc1ccccc1C(=O)O")
	enc := fp.Hex()
	assert.Len(t, enc, FingerprintBits/4)

	back, err := FingerprintFromHex(enc)
	require.NoError(t, err)
	assert.True(t, fp.Equal(back))

	_, err = FingerprintFromHex("zz")
	assert.Error(t, err)
	_, err = FingerprintFromHex("abcd")
	assert.Error(t, err)
}

func TestTanimoto(t *testing.T) {
	a := fpOf(t, "CCO")
	assert.InDelta(t, 1.0, a.Tanimoto(a), 1e-9)

	b := fpOf(t, "c1ccccc1")
	sim := a.Tanimoto(b)
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.Less(t, sim, 1.0)

	var empty Fingerprint
	assert.InDelta(t, 1.0, empty.Tanimoto(empty), 1e-9)
}
