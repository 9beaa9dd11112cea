package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

func writeSnapshotDir(t *testing.T, whitelist, controlled string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, WhitelistFile), []byte(whitelist), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ControlledFile), []byte(controlled), 0o600))
	return dir
}

func TestCSVSourceLoad(t *testing.T) {
	dir := writeSnapshotDir(t,
		"name,smiles\naspirin,CC(=O)Oc1ccccc1C(=O)O\nibuprofen,CC(C)Cc1ccc(cc1)C(C)C(=O)O\n",
		"name,smiles,schedule,fda_banned,cwc_scheduled\n"+
			"fentanyl,CCC(=O)N(c1ccccc1)C1CCN(CCc2ccccc2)CC1,II,false,false\n"+
			"sulfur mustard,ClCCSCCCl,,false,true\n",
	)

	src := NewCSVSource(dir, "2026-08")
	assert.Equal(t, "csv", src.Name())

	snap, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-08", snap.Version)
	require.Len(t, snap.Whitelist, 2)
	assert.Equal(t, "aspirin", snap.Whitelist[0].Name)

	require.Len(t, snap.Controlled, 2)
	assert.Equal(t, "II", snap.Controlled[0].Schedule)
	assert.False(t, snap.Controlled[0].CWCScheduled)
	assert.True(t, snap.Controlled[1].CWCScheduled)
	assert.Empty(t, snap.Controlled[1].Schedule)
}

func TestCSVSourceVersionFallsBackToModTime(t *testing.T) {
	dir := writeSnapshotDir(t, "name,smiles\nethanol,CCO\n",
		"name,smiles,schedule,fda_banned,cwc_scheduled\n")
	snap, err := NewCSVSource(dir, "").Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Version)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(t.TempDir(), "v").Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSnapshotUnavailable))
}

func TestCSVSourceRejectsBadRows(t *testing.T) {
	tests := []struct {
		name       string
		controlled string
	}{
		{"unknown schedule", "name,smiles,schedule,fda_banned,cwc_scheduled\nx,CCO,VI,false,false\n"},
		{"bad boolean", "name,smiles,schedule,fda_banned,cwc_scheduled\nx,CCO,I,maybe,false\n"},
		{"empty smiles", "name,smiles,schedule,fda_banned,cwc_scheduled\nx,,I,false,false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeSnapshotDir(t, "name,smiles\nethanol,CCO\n", tt.controlled)
			_, err := NewCSVSource(dir, "v").Load(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIndexRecordInvalid))
		})
	}
}

func TestCSVSourceRequiresSMILESColumn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, WhitelistFile),
		[]byte("name,structure\nethanol,CCO\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ControlledFile),
		[]byte("name,smiles,schedule,fda_banned,cwc_scheduled\n"), 0o600))

	_, err := NewCSVSource(dir, "v").Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIndexLoadFailed))
}

func TestLoadPatternDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), PatternsFile)
	require.NoError(t, os.WriteFile(path, []byte(
		"id,name,class,query\nOPI-900,test scaffold,opioid,NCCc1ccccc1\n"), 0o600))

	defs, err := LoadPatternDefinitions(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "OPI-900", defs[0].ID)
	assert.Equal(t, "NCCc1ccccc1", defs[0].Query)

	_, err = LoadPatternDefinitions(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
