package chem

import (
	"encoding/hex"
	"hash/fnv"
	"math/bits"
	"sort"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// FingerprintBits is the fixed width of a circular fingerprint.
const FingerprintBits = 2048

// fingerprintRadius is the neighborhood radius of the circular algorithm.
const fingerprintRadius = 2

// Fingerprint is a fixed-width bit vector summarizing the circular atom
// environments of a structure. It disambiguates canonical-form hash ties
// in the exact-match index.
type Fingerprint [FingerprintBits / 8]byte

// CircularFingerprint computes the radius-2 circular fingerprint of m.
// Each atom starts from an invariant hash and is iteratively combined with
// its sorted neighbor environments; every intermediate identifier sets one
// bit.
func CircularFingerprint(m *Molecule) Fingerprint {
	var fp Fingerprint
	n := m.NumAtoms()
	env := make([]uint64, n)
	for i, a := range m.Atoms {
		arom, ring := uint64(0), uint64(0)
		if a.Aromatic {
			arom = 1
		}
		if a.InRing {
			ring = 1
		}
		env[i] = hashTuple(0,
			uint64(a.AtomicNum),
			uint64(int64(a.Charge)+16),
			uint64(a.Isotope),
			uint64(m.Degree(i)),
			uint64(a.HCount),
			arom, ring,
		)
		fp.setBit(env[i])
	}

	for iter := 1; iter <= fingerprintRadius; iter++ {
		next := make([]uint64, n)
		for i := range m.Atoms {
			nbr := make([]uint64, 0, m.Degree(i))
			for _, bi := range m.BondsOf(i) {
				b := m.Bonds[bi]
				nbr = append(nbr, hashTuple(uint64(b.Order), env[b.Other(i)]))
			}
			sort.Slice(nbr, func(a, b int) bool { return nbr[a] < nbr[b] })
			parts := append([]uint64{uint64(iter), env[i]}, nbr...)
			next[i] = hashTuple(parts...)
			fp.setBit(next[i])
		}
		env = next
	}
	return fp
}

func hashTuple(parts ...uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, p := range parts {
		for i := 0; i < 8; i++ {
			buf[i] = byte(p >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

func (f *Fingerprint) setBit(id uint64) {
	bit := id % FingerprintBits
	f[bit/8] |= 1 << (bit % 8)
}

// Equal reports byte equality with other.
func (f Fingerprint) Equal(other Fingerprint) bool { return f == other }

// PopCount returns the number of set bits.
func (f Fingerprint) PopCount() int {
	n := 0
	for _, b := range f {
		n += bits.OnesCount8(b)
	}
	return n
}

// Tanimoto returns the Tanimoto similarity between two fingerprints,
// defined as 1 when both are empty.
func (f Fingerprint) Tanimoto(other Fingerprint) float64 {
	inter, union := 0, 0
	for i := range f {
		inter += bits.OnesCount8(f[i] & other[i])
		union += bits.OnesCount8(f[i] | other[i])
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// Hex encodes the fingerprint as a lowercase hex string.
func (f Fingerprint) Hex() string { return hex.EncodeToString(f[:]) }

// FingerprintFromHex decodes a fingerprint produced by Hex.
func FingerprintFromHex(s string) (Fingerprint, error) {
	var fp Fingerprint
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fp, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "decode fingerprint")
	}
	if len(raw) != len(fp) {
		return fp, apperrors.Newf(apperrors.ErrCodeSerialization,
			"fingerprint has %d bytes, want %d", len(raw), len(fp))
	}
	copy(fp[:], raw)
	return fp, nil
}
