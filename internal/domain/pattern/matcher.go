package pattern

import (
	"context"
	"time"

	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// DefaultMatchTimeout bounds the search for one (candidate, pattern) pair.
const DefaultMatchTimeout = 200 * time.Millisecond

// DefaultMaxCandidateAtoms rejects pathological candidates before search.
const DefaultMaxCandidateAtoms = 512

// deadlineCheckInterval is how many search nodes pass between context
// checks.
const deadlineCheckInterval = 256

// MatcherOptions tunes the scaffold scan.
type MatcherOptions struct {
	// Timeout applies per (candidate, pattern) pair. Zero means
	// DefaultMatchTimeout.
	Timeout time.Duration
	// MaxCandidateAtoms is the candidate size cap. Zero means
	// DefaultMaxCandidateAtoms.
	MaxCandidateAtoms int
}

// Matcher scans candidates against every pattern of a library.
type Matcher struct {
	lib  *Library
	opts MatcherOptions
}

// NewMatcher builds a Matcher over lib.
func NewMatcher(lib *Library, opts MatcherOptions) *Matcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultMatchTimeout
	}
	if opts.MaxCandidateAtoms <= 0 {
		opts.MaxCandidateAtoms = DefaultMaxCandidateAtoms
	}
	return &Matcher{lib: lib, opts: opts}
}

// Hit records one matched scaffold.
type Hit struct {
	PatternID string `json:"pattern_id"`
	Name      string `json:"name"`
	Class     Class  `json:"class"`
}

// ScanResult is the outcome of scanning one candidate against the library.
type ScanResult struct {
	Hits []Hit `json:"hits"`
	// Degraded is set when at least one pattern search hit its timeout and
	// was scored as a non-match.
	Degraded bool `json:"degraded"`
	// TimedOut lists the pattern IDs whose searches were abandoned.
	TimedOut []string `json:"timed_out,omitempty"`
}

// Matched reports whether any scaffold hit.
func (r *ScanResult) Matched() bool { return len(r.Hits) > 0 }

// Scan runs every library pattern against mol. A pattern search that
// exceeds its timeout counts as a non-match and degrades the result
// instead of failing the scan.
func (m *Matcher) Scan(ctx context.Context, mol *chem.Molecule) (*ScanResult, error) {
	if mol.NumAtoms() > m.opts.MaxCandidateAtoms {
		return nil, apperrors.Newf(apperrors.ErrCodeMatchCandidateSize,
			"candidate has %d atoms, cap is %d", mol.NumAtoms(), m.opts.MaxCandidateAtoms)
	}
	res := &ScanResult{}
	for _, p := range m.lib.Patterns() {
		pctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
		ok, err := p.Matches(pctx, mol)
		cancel()
		switch {
		case err == nil:
			if ok {
				res.Hits = append(res.Hits, Hit{PatternID: p.ID, Name: p.Name, Class: p.Class})
			}
		case apperrors.IsCode(err, apperrors.ErrCodeMatchTimeout) && ctx.Err() == nil:
			res.Degraded = true
			res.TimedOut = append(res.TimedOut, p.ID)
		default:
			return nil, err
		}
	}
	return res, nil
}

// Matches reports whether p embeds into mol as a subgraph. The embedding
// is not induced: candidate bonds outside the query are ignored.
func (p *Pattern) Matches(ctx context.Context, mol *chem.Molecule) (bool, error) {
	if p.graph.NumAtoms() > mol.NumAtoms() {
		return false, nil
	}
	st := &searchState{
		ctx:     ctx,
		query:   p.graph,
		target:  mol,
		order:   p.searchOrder,
		mapping: make([]int, p.graph.NumAtoms()),
		used:    make([]bool, mol.NumAtoms()),
	}
	for i := range st.mapping {
		st.mapping[i] = -1
	}
	ok, err := st.extend(0)
	if err != nil {
		return false, err
	}
	return ok, nil
}

type searchState struct {
	ctx    context.Context
	query  *chem.Molecule
	target *chem.Molecule
	order  []int

	// mapping[q] is the target atom assigned to query atom q, or -1.
	mapping []int
	used    []bool
	nodes   int
}

func (s *searchState) extend(depth int) (bool, error) {
	if depth == len(s.order) {
		return true, nil
	}
	s.nodes++
	if s.nodes%deadlineCheckInterval == 1 {
		if err := s.ctx.Err(); err != nil {
			return false, apperrors.Wrap(err, apperrors.ErrCodeMatchTimeout,
				"scaffold search abandoned")
		}
	}

	q := s.order[depth]
	for _, cand := range s.candidates(q) {
		if s.used[cand] || !s.atomCompatible(q, cand) || !s.bondsCompatible(q, cand) {
			continue
		}
		s.mapping[q] = cand
		s.used[cand] = true
		ok, err := s.extend(depth + 1)
		s.mapping[q] = -1
		s.used[cand] = false
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// candidates enumerates target atoms worth trying for query atom q: the
// neighbors of an already-mapped query neighbor when one exists, otherwise
// every target atom.
func (s *searchState) candidates(q int) []int {
	for _, qn := range s.query.Neighbors(q) {
		if t := s.mapping[qn]; t >= 0 {
			return s.target.Neighbors(t)
		}
	}
	all := make([]int, s.target.NumAtoms())
	for i := range all {
		all[i] = i
	}
	return all
}

func (s *searchState) atomCompatible(q, t int) bool {
	qa := s.query.Atoms[q]
	ta := s.target.Atoms[t]
	if qa.RingConstraint && !ta.InRing {
		return false
	}
	if qa.Wildcard {
		return s.target.Degree(t) >= s.query.Degree(q)
	}
	if qa.Element != ta.Element || qa.Charge != ta.Charge {
		return false
	}
	// lowercase query atoms match aromatic targets only, uppercase
	// aliphatic only
	if qa.Aromatic != ta.Aromatic {
		return false
	}
	return s.target.Degree(t) >= s.query.Degree(q)
}

// bondsCompatible verifies every query bond from q into the mapped region
// against the corresponding target bond.
func (s *searchState) bondsCompatible(q, t int) bool {
	for _, bi := range s.query.BondsOf(q) {
		qb := s.query.Bonds[bi]
		other := s.mapping[qb.Other(q)]
		if other < 0 {
			continue
		}
		tbi := s.target.BondBetween(t, other)
		if tbi < 0 {
			return false
		}
		if !bondOrderCompatible(qb.Order, s.target.Bonds[tbi].Order) {
			return false
		}
	}
	return true
}

func bondOrderCompatible(query, target chem.BondOrder) bool {
	switch query {
	case chem.BondAny:
		return true
	case chem.BondSingleOrAromatic:
		return target == chem.BondSingle || target == chem.BondAromatic
	default:
		return query == target
	}
}
