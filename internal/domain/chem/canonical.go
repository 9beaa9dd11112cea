package chem

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalSMILES serializes m into its canonical form. The same structure
// always yields the same string regardless of input atom order or Kekule
// versus aromatic notation. Disconnected fragments are serialized
// independently, sorted, and joined with ".".
func CanonicalSMILES(m *Molecule) string {
	ranks := canonicalRanks(m)
	frags := make([]string, 0, 1)
	for _, comp := range m.Components() {
		frags = append(frags, writeFragment(m, ranks, comp))
	}
	sort.Strings(frags)
	return strings.Join(frags, ".")
}

// Normalize parses a candidate structure and returns its canonical SMILES
// together with its circular fingerprint.
func Normalize(input string) (string, Fingerprint, error) {
	m, err := ParseSMILES(input)
	if err != nil {
		return "", Fingerprint{}, err
	}
	return CanonicalSMILES(m), CircularFingerprint(m), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Canonical ranking
// ─────────────────────────────────────────────────────────────────────────────

// canonicalRanks assigns every atom a rank by iterative neighborhood
// refinement over the atom invariants, with symmetry ties broken one atom
// at a time. Lower rank means earlier in the canonical output.
func canonicalRanks(m *Molecule) []int {
	n := m.NumAtoms()
	ranks := make([]int, n)

	initial := make([]string, n)
	for i, a := range m.Atoms {
		arom := 0
		if a.Aromatic {
			arom = 1
		}
		ring := 0
		if a.InRing {
			ring = 1
		}
		initial[i] = fmt.Sprintf("%03d|%+03d|%03d|%d|%d|%d|%d",
			a.AtomicNum, a.Charge, a.Isotope, m.Degree(i), a.HCount, arom, ring)
	}
	ranks = denseRank(initial)

	ranks = refine(m, ranks)
	for distinct(ranks) < n {
		// All atoms sharing a refinement-stable rank are treated as
		// symmetric; promote one of them and refine again.
		tieRank, tieAtom := -1, -1
		for i, r := range ranks {
			shared := false
			for j, s := range ranks {
				if j != i && s == r {
					shared = true
					break
				}
			}
			if shared && (tieRank < 0 || r < tieRank) {
				tieRank, tieAtom = r, i
			}
		}
		if tieAtom < 0 {
			break
		}
		for i := range ranks {
			ranks[i] *= 2
		}
		ranks[tieAtom]--
		ranks = refine(m, ranks)
	}
	return ranks
}

func refine(m *Molecule, ranks []int) []int {
	n := m.NumAtoms()
	cur := append([]int(nil), ranks...)
	for {
		keys := make([]string, n)
		for i := range m.Atoms {
			nbr := make([]string, 0, m.Degree(i))
			for _, bi := range m.BondsOf(i) {
				b := m.Bonds[bi]
				nbr = append(nbr, fmt.Sprintf("%d:%06d", b.Order, cur[b.Other(i)]))
			}
			sort.Strings(nbr)
			keys[i] = fmt.Sprintf("%06d|%s", cur[i], strings.Join(nbr, ","))
		}
		next := denseRank(keys)
		if distinct(next) == distinct(cur) {
			return next
		}
		cur = next
	}
}

func denseRank(keys []string) []int {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	pos := make(map[string]int, len(sorted))
	r := 0
	for _, k := range sorted {
		if _, ok := pos[k]; !ok {
			pos[k] = r
			r++
		}
	}
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = pos[k]
	}
	return out
}

func distinct(ranks []int) int {
	set := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		set[r] = struct{}{}
	}
	return len(set)
}

// ─────────────────────────────────────────────────────────────────────────────
// Writer
// ─────────────────────────────────────────────────────────────────────────────

type fragWriter struct {
	m     *Molecule
	ranks []int

	order    []int // emission position per atom, -1 when unvisited
	treeBond []bool
	closures map[int]int // closure bond index -> assigned digit
	nextNum  int
	sb       strings.Builder
}

func writeFragment(m *Molecule, ranks []int, comp []int) string {
	start := comp[0]
	for _, at := range comp {
		if ranks[at] < ranks[start] {
			start = at
		}
	}

	w := &fragWriter{
		m:        m,
		ranks:    ranks,
		order:    make([]int, m.NumAtoms()),
		treeBond: make([]bool, m.NumBonds()),
		closures: map[int]int{},
		nextNum:  1,
	}
	for i := range w.order {
		w.order[i] = -1
	}
	w.walk(start, -1, new(int))
	w.emit(start, -1)
	return w.sb.String()
}

// walk precomputes the emission order and the spanning-tree bonds so ring
// closures can be attributed to their earlier endpoint.
func (w *fragWriter) walk(at, fromBond int, counter *int) {
	w.order[at] = *counter
	*counter = *counter + 1
	for _, bi := range w.sortedBonds(at) {
		if bi == fromBond {
			continue
		}
		nb := w.m.Bonds[bi].Other(at)
		if w.order[nb] < 0 {
			w.treeBond[bi] = true
			w.walk(nb, bi, counter)
		}
	}
}

func (w *fragWriter) emit(at, fromBond int) {
	if fromBond >= 0 {
		w.sb.WriteString(w.bondSymbol(fromBond))
	}
	w.sb.WriteString(atomToken(w.m, at))
	w.emitClosures(at)

	var children []int
	for _, bi := range w.sortedBonds(at) {
		if w.treeBond[bi] && w.order[w.m.Bonds[bi].Other(at)] > w.order[at] {
			children = append(children, bi)
		}
	}
	for i, bi := range children {
		nb := w.m.Bonds[bi].Other(at)
		if i < len(children)-1 {
			w.sb.WriteByte('(')
			w.emit(nb, bi)
			w.sb.WriteByte(')')
		} else {
			w.emit(nb, bi)
		}
	}
}

// emitClosures writes ring-closure digits at atom at: first the digits
// being closed, then newly opened ones ordered by the far endpoint's rank.
func (w *fragWriter) emitClosures(at int) {
	var closing, opening []int
	for _, bi := range w.sortedBonds(at) {
		b := w.m.Bonds[bi]
		if w.treeBond[bi] {
			continue
		}
		if _, open := w.closures[bi]; open {
			closing = append(closing, bi)
		} else if w.order[b.Other(at)] > w.order[at] {
			opening = append(opening, bi)
		}
	}
	sort.Slice(closing, func(i, j int) bool {
		return w.closures[closing[i]] < w.closures[closing[j]]
	})
	for _, bi := range closing {
		w.writeClosureDigit(bi, w.closures[bi])
		delete(w.closures, bi)
	}
	sort.Slice(opening, func(i, j int) bool {
		return w.ranks[w.m.Bonds[opening[i]].Other(at)] < w.ranks[w.m.Bonds[opening[j]].Other(at)]
	})
	for _, bi := range opening {
		w.closures[bi] = w.nextNum
		w.writeClosureDigit(bi, w.nextNum)
		w.nextNum++
	}
}

func (w *fragWriter) writeClosureDigit(bi, num int) {
	w.sb.WriteString(w.bondSymbol(bi))
	if num >= 10 {
		fmt.Fprintf(&w.sb, "%%%02d", num)
	} else {
		fmt.Fprintf(&w.sb, "%d", num)
	}
}

// bondSymbol returns the symbol written before an atom or closure digit.
// Single bonds between two aromatic atoms need an explicit "-" so readers
// do not take the default aromatic order.
func (w *fragWriter) bondSymbol(bi int) string {
	b := w.m.Bonds[bi]
	switch b.Order {
	case BondSingle:
		if w.m.Atoms[b.A].Aromatic && w.m.Atoms[b.B].Aromatic {
			return "-"
		}
		return ""
	case BondAromatic:
		if w.m.Atoms[b.A].Aromatic && w.m.Atoms[b.B].Aromatic {
			return ""
		}
		return ":"
	default:
		return b.Order.Symbol()
	}
}

// sortedBonds orders the bonds of an atom by the canonical rank of the far
// endpoint, which fixes branch and closure ordering.
func (w *fragWriter) sortedBonds(at int) []int {
	bonds := append([]int(nil), w.m.BondsOf(at)...)
	sort.Slice(bonds, func(i, j int) bool {
		return w.ranks[w.m.Bonds[bonds[i]].Other(at)] < w.ranks[w.m.Bonds[bonds[j]].Other(at)]
	})
	return bonds
}

// atomToken writes one atom, bracketed only when a bare symbol would lose
// information.
func atomToken(m *Molecule, i int) string {
	a := m.Atoms[i]
	sym := a.Element
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}

	needBracket := a.Charge != 0 || a.Isotope != 0 || !organicSubset[a.Element] ||
		(a.Aromatic && !aromaticSubset[sym])
	if !needBracket && a.HCount != impliedHCount(m, i) {
		needBracket = true
	}
	if !needBracket {
		return sym
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope != 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	sb.WriteString(sym)
	switch {
	case a.HCount == 1:
		sb.WriteByte('H')
	case a.HCount > 1:
		fmt.Fprintf(&sb, "H%d", a.HCount)
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		fmt.Fprintf(&sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "-%d", -a.Charge)
	}
	sb.WriteByte(']')
	return sb.String()
}
