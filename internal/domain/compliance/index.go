package compliance

import (
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Index holds the exact-match tiers of a snapshot, keyed by canonical
// form. An Index is immutable after construction; reloads swap in a new
// one.
type Index struct {
	version    string
	whitelist  map[string]*Record
	controlled map[string]*Record
}

// BuildIndex resolves every snapshot row and indexes it by canonical form.
// A row that fails to resolve fails the whole build: a partially loaded
// reference list must never serve classification traffic. Rows whose
// canonical form repeats within a list keep the first occurrence.
func BuildIndex(snap *Snapshot) (*Index, error) {
	idx := &Index{
		version:    snap.Version,
		whitelist:  make(map[string]*Record, len(snap.Whitelist)),
		controlled: make(map[string]*Record, len(snap.Controlled)),
	}
	for _, in := range snap.Whitelist {
		rec, err := in.resolve()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexLoadFailed, "whitelist")
		}
		if _, dup := idx.whitelist[rec.Canonical]; !dup {
			idx.whitelist[rec.Canonical] = rec
		}
	}
	for _, in := range snap.Controlled {
		rec, err := in.resolve()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeIndexLoadFailed, "controlled")
		}
		if _, dup := idx.controlled[rec.Canonical]; !dup {
			idx.controlled[rec.Canonical] = rec
		}
	}
	return idx, nil
}

// Version returns the snapshot version the index was built from.
func (i *Index) Version() string { return i.version }

// WhitelistSize returns the number of whitelisted substances.
func (i *Index) WhitelistSize() int { return len(i.whitelist) }

// ControlledSize returns the number of controlled substances.
func (i *Index) ControlledSize() int { return len(i.controlled) }

// LookupWhitelist finds a whitelist record by canonical form. The record
// is confirmed against the candidate fingerprint; a canonical-form
// collision with a differing fingerprint is reported as ambiguous and is
// not a match.
func (i *Index) LookupWhitelist(canonical string, fp chem.Fingerprint) (*Record, error) {
	return lookup(i.whitelist, canonical, fp)
}

// LookupControlled is LookupWhitelist against the controlled list.
func (i *Index) LookupControlled(canonical string, fp chem.Fingerprint) (*Record, error) {
	return lookup(i.controlled, canonical, fp)
}

func lookup(m map[string]*Record, canonical string, fp chem.Fingerprint) (*Record, error) {
	rec, ok := m[canonical]
	if !ok {
		return nil, nil
	}
	if !rec.Fingerprint.Equal(fp) {
		return nil, apperrors.Newf(apperrors.ErrCodeIndexHashAmbiguous,
			"canonical form of %q matched but fingerprints differ (tanimoto %.2f)",
			rec.Name, rec.Fingerprint.Tanimoto(fp))
	}
	return rec, nil
}
