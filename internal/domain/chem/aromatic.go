package chem

// perceiveAromaticity normalizes aromatic rings so Kekule and lowercase
// notations of the same structure converge on one graph. Rings written
// aromatic in the input are taken at face value; all other five-, six- and
// seven-membered rings are tested against the 4n+2 electron rule.
func perceiveAromaticity(m *Molecule) {
	markInputAromaticRings(m)

	// Fused systems can need the neighbor ring settled first, so repeat
	// until no ring changes.
	for changed := true; changed; {
		changed = false
		for _, ring := range m.Rings {
			if len(ring) < 5 || len(ring) > 7 || ringIsAromatic(m, ring) {
				continue
			}
			if pi, ok := piElectronCount(m, ring); ok && pi%4 == 2 {
				aromatize(m, ring)
				changed = true
			}
		}
	}
}

// markInputAromaticRings converts ring bonds between input-aromatic atoms
// to aromatic order, so closure and branch bonds inside lowercase rings
// are uniform.
func markInputAromaticRings(m *Molecule) {
	for _, ring := range m.Rings {
		all := true
		for _, at := range ring {
			if !m.Atoms[at].Aromatic {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		n := len(ring)
		for i, at := range ring {
			if bi := m.BondBetween(at, ring[(i+1)%n]); bi >= 0 {
				if m.Bonds[bi].Order == BondSingle || m.Bonds[bi].Order == BondDouble {
					m.Bonds[bi].Order = BondAromatic
				}
			}
		}
	}
}

func ringIsAromatic(m *Molecule, ring []int) bool {
	for _, at := range ring {
		if !m.Atoms[at].Aromatic {
			return false
		}
	}
	return true
}

// piElectronCount applies the per-atom electron contributions: one for an
// atom in a ring double bond or an already-aromatic fusion atom, zero for
// a carbon with an exocyclic double bond, two for a heteroatom lone pair.
// ok is false when any ring atom cannot participate in the pi system.
func piElectronCount(m *Molecule, ring []int) (pi int, ok bool) {
	inRing := make(map[int]bool, len(ring))
	for _, at := range ring {
		inRing[at] = true
	}
	for _, at := range ring {
		a := m.Atoms[at]
		var ringDouble, exoDouble, aromBond, triple bool
		for _, bi := range m.BondsOf(at) {
			b := m.Bonds[bi]
			switch b.Order {
			case BondDouble:
				if inRing[b.Other(at)] {
					ringDouble = true
				} else {
					exoDouble = true
				}
			case BondTriple:
				triple = true
			case BondAromatic:
				aromBond = true
			}
		}
		switch {
		case triple:
			return 0, false
		case ringDouble, aromBond:
			pi++
		case exoDouble:
			// carbonyl-style carbon contributes an empty orbital
		case a.Element == "N" || a.Element == "O" || a.Element == "S" ||
			a.Element == "P" || a.Element == "Se":
			pi += 2
		case a.Element == "C" && a.Charge < 0:
			pi += 2
		case a.Element == "C" && a.Charge > 0:
			// empty orbital, contributes nothing
		default:
			return 0, false
		}
	}
	return pi, true
}

func aromatize(m *Molecule, ring []int) {
	n := len(ring)
	for i, at := range ring {
		m.Atoms[at].Aromatic = true
		if bi := m.BondBetween(at, ring[(i+1)%n]); bi >= 0 {
			if m.Bonds[bi].Order == BondSingle || m.Bonds[bi].Order == BondDouble {
				m.Bonds[bi].Order = BondAromatic
			}
		}
	}
}
