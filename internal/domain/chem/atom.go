// Package chem implements the molecular graph model for the FAVES engine:
// SMILES parsing, ring and aromaticity perception, canonical serialization
// and circular fingerprints. Candidate structures and scaffold queries share
// the same graph representation.
package chem

import "strings"

// BondOrder is the order of a bond between two atoms. The query-only orders
// are produced when parsing scaffold patterns and never appear in candidate
// molecules.
type BondOrder uint8

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondAromatic

	// BondSingleOrAromatic is the default bond in a scaffold query when no
	// bond symbol is written between two atoms.
	BondSingleOrAromatic
	// BondAny matches every bond order. Written as "~" in queries.
	BondAny
)

// Symbol returns the SMILES bond symbol, empty for single and aromatic.
func (o BondOrder) Symbol() string {
	switch o {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondAny:
		return "~"
	default:
		return ""
	}
}

// numeric multiplicity used in valence accounting. Aromatic counts as 1.5
// and the total is rounded up.
func (o BondOrder) multiplicityX2() int {
	switch o {
	case BondDouble:
		return 4
	case BondTriple:
		return 6
	case BondAromatic:
		return 3
	default:
		return 2
	}
}

// Atom is a node in the molecular graph. Hydrogens are not graph nodes;
// they are folded into HCount.
type Atom struct {
	// Element is the uppercase element symbol, or "*" for a query wildcard.
	Element   string
	AtomicNum int
	Charge    int
	Isotope   int
	Aromatic  bool

	// HCount is the total hydrogen count. Set from the bracket expression
	// when present, otherwise derived from standard valence.
	HCount int
	// explicitH records that HCount came from a bracket and must not be
	// recomputed during valence assignment.
	explicitH bool

	// Wildcard marks a "*" query atom that matches any element.
	Wildcard bool
	// RingConstraint marks an "[R]" query atom that only matches ring atoms.
	RingConstraint bool

	// InRing is set by ring perception.
	InRing bool
}

// Bond is an edge between Atoms[A] and Atoms[B].
type Bond struct {
	A, B   int
	Order  BondOrder
	InRing bool
}

// Other returns the endpoint of b that is not atom i.
func (b Bond) Other(i int) int {
	if b.A == i {
		return b.B
	}
	return b.A
}

var atomicNumbers = map[string]int{
	"H": 1, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9,
	"Si": 14, "P": 15, "S": 16, "Cl": 17, "Br": 35, "I": 53,
	"Li": 3, "Na": 11, "K": 19, "Mg": 12, "Ca": 20, "Fe": 26, "Zn": 30,
	"Se": 34, "As": 33, "Sn": 50,
}

// organicSubset elements may be written without brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSubset elements may be written lowercase.
var aromaticSubset = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
	"se": true, "as": true,
}

// defaultValences lists the allowed valence states in ascending order.
// Elements not listed get no implicit hydrogens.
var defaultValences = map[string][]int{
	"B": {3}, "C": {4}, "N": {3, 5}, "O": {2}, "P": {3, 5},
	"S": {2, 4, 6}, "F": {1}, "Cl": {1}, "Br": {1}, "I": {1},
}

// valenceFor returns the allowed valences for an element adjusted for
// formal charge, or nil when the element has no implicit-H model.
func valenceFor(element string, charge int) []int {
	base, ok := defaultValences[element]
	if !ok {
		return nil
	}
	if charge == 0 {
		return base
	}
	adj := make([]int, 0, len(base))
	for _, v := range base {
		var av int
		switch element {
		case "C":
			av = v - abs(charge)
		case "B":
			av = v + charge
		default:
			// N+ 4, O- 1, O+ 3, S- 1 and friends.
			av = v + charge
		}
		if av >= 0 {
			adj = append(adj, av)
		}
	}
	return adj
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// normalizeElement maps a possibly-lowercase symbol to its canonical
// uppercase form, reporting whether it was written aromatic.
func normalizeElement(sym string) (element string, aromatic bool, ok bool) {
	if sym == "" {
		return "", false, false
	}
	if sym[0] >= 'a' && sym[0] <= 'z' {
		if !aromaticSubset[sym] {
			return "", false, false
		}
		element = strings.ToUpper(sym[:1]) + sym[1:]
		_, known := atomicNumbers[element]
		return element, true, known
	}
	_, known := atomicNumbers[sym]
	return sym, false, known
}
