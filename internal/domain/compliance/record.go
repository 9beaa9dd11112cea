// Package compliance implements the three-tier classification pipeline:
// whitelist exact match, controlled-substance exact match, and scaffold
// scan. The exact-match tiers run against an in-memory index built from a
// reference snapshot.
package compliance

import (
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// DEA schedule labels carried on controlled records.
const (
	ScheduleI   = "I"
	ScheduleII  = "II"
	ScheduleIII = "III"
	ScheduleIV  = "IV"
	ScheduleV   = "V"
)

// RecordInput is one row of a reference snapshot. Canonical and
// FingerprintHex are optional; when absent they are derived from SMILES
// during indexing.
type RecordInput struct {
	Name           string `json:"name"`
	SMILES         string `json:"smiles"`
	Canonical      string `json:"canonical,omitempty"`
	FingerprintHex string `json:"fingerprint,omitempty"`

	Schedule     string `json:"schedule,omitempty"`
	FDABanned    bool   `json:"fda_banned,omitempty"`
	CWCScheduled bool   `json:"cwc_scheduled,omitempty"`
}

// Record is an indexed reference substance.
type Record struct {
	Name        string
	SMILES      string
	Canonical   string
	Fingerprint chem.Fingerprint

	Schedule     string
	FDABanned    bool
	CWCScheduled bool
}

// Snapshot is the full reference dataset an index is built from.
type Snapshot struct {
	// Version identifies the snapshot for audit records.
	Version    string
	Whitelist  []RecordInput
	Controlled []RecordInput
}

// resolve turns an input row into an indexed record, deriving the
// canonical form and fingerprint from SMILES when not precomputed.
func (in RecordInput) resolve() (*Record, error) {
	if in.SMILES == "" && in.Canonical == "" {
		return nil, apperrors.Newf(apperrors.ErrCodeIndexRecordInvalid,
			"record %q has neither smiles nor canonical form", in.Name)
	}
	rec := &Record{
		Name:         in.Name,
		SMILES:       in.SMILES,
		Schedule:     in.Schedule,
		FDABanned:    in.FDABanned,
		CWCScheduled: in.CWCScheduled,
	}
	if in.Canonical != "" && in.FingerprintHex != "" {
		fp, err := chem.FingerprintFromHex(in.FingerprintHex)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexRecordInvalid,
				"record "+in.Name)
		}
		rec.Canonical = in.Canonical
		rec.Fingerprint = fp
		return rec, nil
	}
	canonical, fp, err := chem.Normalize(in.SMILES)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexRecordInvalid,
			"record "+in.Name)
	}
	rec.Canonical = canonical
	rec.Fingerprint = fp
	return rec, nil
}
