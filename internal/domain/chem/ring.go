package chem

// perceiveRings finds, for every ring bond, the shortest cycle through it,
// and records the deduplicated cycle set on m.Rings. Atoms and bonds that
// lie on any such cycle get their InRing flag set.
func perceiveRings(m *Molecule) {
	m.Rings = nil
	seen := map[string]bool{}
	for bi := range m.Bonds {
		cycle := shortestCycleThrough(m, bi)
		if cycle == nil {
			continue
		}
		key := ringKey(cycle)
		if seen[key] {
			markRing(m, cycle)
			continue
		}
		seen[key] = true
		m.Rings = append(m.Rings, cycle)
		markRing(m, cycle)
	}
}

// shortestCycleThrough returns the atoms of the shortest cycle containing
// bond bi, ordered along the cycle, or nil when the bond is acyclic. It
// runs a BFS from one endpoint to the other with the bond itself removed.
func shortestCycleThrough(m *Molecule, bi int) []int {
	src, dst := m.Bonds[bi].A, m.Bonds[bi].B
	prev := make([]int, len(m.Atoms))
	for i := range prev {
		prev[i] = -1
	}
	prev[src] = src
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			break
		}
		for _, nbi := range m.BondsOf(cur) {
			if nbi == bi {
				continue
			}
			nb := m.Bonds[nbi].Other(cur)
			if prev[nb] < 0 {
				prev[nb] = cur
				queue = append(queue, nb)
			}
		}
	}
	if prev[dst] < 0 {
		return nil
	}
	var path []int
	for at := dst; at != src; at = prev[at] {
		path = append(path, at)
	}
	path = append(path, src)
	return path
}

// ringKey builds an orientation-independent identity for a cycle.
func ringKey(cycle []int) string {
	sorted := append([]int(nil), cycle...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	key := make([]byte, 0, len(sorted)*3)
	for _, v := range sorted {
		key = append(key, byte(v>>16), byte(v>>8), byte(v))
	}
	return string(key)
}

func markRing(m *Molecule, cycle []int) {
	n := len(cycle)
	for i, at := range cycle {
		m.Atoms[at].InRing = true
		if bi := m.BondBetween(at, cycle[(i+1)%n]); bi >= 0 {
			m.Bonds[bi].InRing = true
		}
	}
}
