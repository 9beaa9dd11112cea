package chem

// Molecule is an undirected molecular graph. The zero value is an empty
// molecule ready for AddAtom/AddBond.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond

	// adj[i] lists the bond indices incident to atom i.
	adj [][]int

	// Rings holds the perceived rings as ordered atom cycles.
	Rings [][]int
}

// AddAtom appends a and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.Atoms) - 1
}

// AddBond connects atoms a and b and returns the bond index.
func (m *Molecule) AddBond(a, b int, order BondOrder) int {
	m.Bonds = append(m.Bonds, Bond{A: a, B: b, Order: order})
	bi := len(m.Bonds) - 1
	m.adj[a] = append(m.adj[a], bi)
	m.adj[b] = append(m.adj[b], bi)
	return bi
}

// NumAtoms returns the atom count.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// Degree returns the number of explicit connections of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }

// BondsOf returns the bond indices incident to atom i. The returned slice
// is owned by the molecule and must not be mutated.
func (m *Molecule) BondsOf(i int) []int { return m.adj[i] }

// Neighbors returns the atom indices adjacent to atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.adj[i]))
	for _, bi := range m.adj[i] {
		out = append(out, m.Bonds[bi].Other(i))
	}
	return out
}

// BondBetween returns the index of the bond joining a and b, or -1.
func (m *Molecule) BondBetween(a, b int) int {
	for _, bi := range m.adj[a] {
		if m.Bonds[bi].Other(a) == b {
			return bi
		}
	}
	return -1
}

// Components splits the molecule into connected components, each listed as
// a sorted slice of atom indices.
func (m *Molecule) Components() [][]int {
	seen := make([]bool, len(m.Atoms))
	var comps [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		var comp []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for _, bi := range m.adj[cur] {
				nb := m.Bonds[bi].Other(cur)
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// TotalHCount reports the stored hydrogen count of atom i.
func (m *Molecule) TotalHCount(i int) int { return m.Atoms[i].HCount }

// bondOrderSumX2 returns twice the bond order sum of atom i, counting
// aromatic bonds as 1.5.
func (m *Molecule) bondOrderSumX2(i int) int {
	sum := 0
	for _, bi := range m.adj[i] {
		sum += m.Bonds[bi].Order.multiplicityX2()
	}
	return sum
}
