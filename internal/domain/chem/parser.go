package chem

import (
	"strings"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// parseMode selects between strict candidate parsing and lenient scaffold
// query parsing.
type parseMode int

const (
	modeCandidate parseMode = iota
	modeQuery
)

// ParseSMILES parses a candidate structure. The result has hydrogen counts
// assigned, rings perceived and aromaticity normalized, so chemically
// equivalent Kekule and aromatic inputs yield the same graph.
func ParseSMILES(input string) (*Molecule, error) {
	m, err := parse(input, modeCandidate)
	if err != nil {
		return nil, err
	}
	if err := assignImplicitHydrogens(m); err != nil {
		return nil, err
	}
	perceiveRings(m)
	perceiveAromaticity(m)
	return m, nil
}

// ParseQuery parses a scaffold query. Queries additionally allow the "*"
// wildcard atom, the "~" any-order bond and the "[R]" ring constraint.
// No valence checking is done and bracket hydrogen counts are ignored;
// unwritten bonds default to single-or-aromatic.
func ParseQuery(input string) (*Molecule, error) {
	m, err := parse(input, modeQuery)
	if err != nil {
		return nil, err
	}
	perceiveRings(m)
	markInputAromaticRings(m)
	return m, nil
}

type parser struct {
	in   string
	pos  int
	mode parseMode
	mol  *Molecule

	// prev is the atom awaiting the next connection, -1 after a dot.
	prev      int
	stack     []int
	pendOrder BondOrder
	pendSet   bool

	// open ring-closure digits mapped to (atom index, bond order written
	// at the opening site).
	ring map[int]ringOpen
}

type ringOpen struct {
	atom  int
	order BondOrder
	set   bool
}

func parse(input string, mode parseMode) (*Molecule, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperrors.New(apperrors.ErrCodeParseEmptyStructure, "empty structure")
	}
	p := &parser{
		in:   input,
		mode: mode,
		mol:  &Molecule{},
		prev: -1,
		ring: map[int]ringOpen{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	if len(p.stack) > 0 {
		return nil, p.syntaxErr("unclosed branch")
	}
	if len(p.ring) > 0 {
		return nil, apperrors.Newf(apperrors.ErrCodeParseRingClosure,
			"unmatched ring closure in %q", input)
	}
	if p.pendSet {
		return nil, p.syntaxErr("dangling bond symbol")
	}
	if len(p.mol.Atoms) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeParseEmptyStructure, "structure has no atoms")
	}
	return p.mol, nil
}

func (p *parser) run() error {
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		switch {
		case c == ' ' || c == '\t':
			// SMILES ends at whitespace, the remainder is a title.
			return nil
		case c == '(':
			if p.prev < 0 {
				return p.syntaxErr("branch before any atom")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.syntaxErr("unmatched close parenthesis")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.pendSet {
				return p.syntaxErr("bond symbol before dot")
			}
			p.prev = -1
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\' || c == '~':
			if err := p.readBond(c); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			if err := p.ringClosure(int(c - '0')); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			if p.pos+2 >= len(p.in) || !isDigit(p.in[p.pos+1]) || !isDigit(p.in[p.pos+2]) {
				return p.syntaxErr("bad %nn ring closure")
			}
			n := int(p.in[p.pos+1]-'0')*10 + int(p.in[p.pos+2]-'0')
			if err := p.ringClosure(n); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		case c == '*':
			if p.mode != modeQuery {
				return apperrors.New(apperrors.ErrCodeParseUnknownAtom,
					"wildcard atom is only valid in scaffold queries")
			}
			p.addAtom(Atom{Element: "*", Wildcard: true})
			p.pos++
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) readBond(c byte) error {
	if p.pendSet {
		return p.syntaxErr("consecutive bond symbols")
	}
	switch c {
	case '=':
		p.pendOrder = BondDouble
	case '#':
		p.pendOrder = BondTriple
	case ':':
		p.pendOrder = BondAromatic
	case '~':
		if p.mode != modeQuery {
			return p.syntaxErr("any-order bond is only valid in scaffold queries")
		}
		p.pendOrder = BondAny
	default:
		// "-" and directional "/" "\" are single bonds; stereo is dropped.
		p.pendOrder = BondSingle
	}
	p.pendSet = true
	p.pos++
	return nil
}

// organicAtom reads a bare organic-subset symbol, two-letter halogens first.
func (p *parser) organicAtom() error {
	rest := p.in[p.pos:]
	var sym string
	switch {
	case strings.HasPrefix(rest, "Cl"):
		sym = "Cl"
	case strings.HasPrefix(rest, "Br"):
		sym = "Br"
	default:
		sym = rest[:1]
	}
	element, aromatic, known := normalizeElement(sym)
	if !known || (!aromatic && !organicSubset[element]) {
		return apperrors.Newf(apperrors.ErrCodeParseUnknownAtom,
			"unknown atom symbol %q at position %d", sym, p.pos)
	}
	p.addAtom(Atom{Element: element, AtomicNum: atomicNumbers[element], Aromatic: aromatic})
	p.pos += len(sym)
	return nil
}

// bracketAtom reads a "[...]" expression: isotope, symbol, chirality,
// hydrogen count, charge and atom map, in that order.
func (p *parser) bracketAtom() error {
	start := p.pos
	p.pos++ // consume "["

	bracketErr := func(why string) error {
		return apperrors.Newf(apperrors.ErrCodeParseBracket,
			"%s in bracket atom at position %d", why, start)
	}

	var a Atom
	a.Isotope = p.readDigits()

	// Element symbol, wildcard, or a bare ring constraint "[R]".
	switch {
	case p.peek() == '*':
		a.Element = "*"
		a.Wildcard = true
		p.pos++
	case p.mode == modeQuery && p.peek() == 'R':
		a.Element = "*"
		a.Wildcard = true
		a.RingConstraint = true
		p.pos++
	default:
		sym := p.readSymbol()
		if sym == "" {
			return bracketErr("missing element symbol")
		}
		element, aromatic, known := normalizeElement(sym)
		if !known {
			return apperrors.Newf(apperrors.ErrCodeParseUnknownAtom,
				"unknown element %q at position %d", sym, start)
		}
		a.Element = element
		a.AtomicNum = atomicNumbers[element]
		a.Aromatic = aromatic
	}

	// Ring constraint suffix after the symbol, e.g. "[NR]".
	if p.mode == modeQuery && p.peek() == 'R' {
		a.RingConstraint = true
		p.pos++
	}

	// Chirality markers are accepted and discarded.
	for p.peek() == '@' {
		p.pos++
	}

	if p.peek() == 'H' {
		p.pos++
		n := p.readDigits()
		if n == 0 {
			n = 1
		}
		a.HCount = n
		a.explicitH = true
	}

	for p.peek() == '+' || p.peek() == '-' {
		sign := 1
		if p.peek() == '-' {
			sign = -1
		}
		p.pos++
		if n := p.readDigits(); n > 0 {
			a.Charge += sign * n
		} else {
			a.Charge += sign
			for p.peek() == p.in[p.pos-1] {
				a.Charge += sign
				p.pos++
			}
		}
	}

	if p.peek() == ':' {
		p.pos++
		p.readDigits() // atom maps carry no meaning here
	}

	if p.peek() != ']' {
		return bracketErr("unterminated or malformed expression")
	}
	p.pos++

	if p.mode == modeQuery {
		// Query hydrogen constraints are ignored.
		a.HCount = 0
		a.explicitH = false
	}
	p.addAtom(a)
	return nil
}

func (p *parser) addAtom(a Atom) {
	idx := p.mol.AddAtom(a)
	if p.prev >= 0 {
		p.mol.AddBond(p.prev, idx, p.takeOrder(p.prev, idx))
	}
	p.prev = idx
}

func (p *parser) ringClosure(n int) error {
	if p.prev < 0 {
		return apperrors.New(apperrors.ErrCodeParseRingClosure, "ring closure before any atom")
	}
	open, ok := p.ring[n]
	if !ok {
		p.ring[n] = ringOpen{atom: p.prev, order: p.pendOrder, set: p.pendSet}
		p.pendSet = false
		return nil
	}
	delete(p.ring, n)
	if open.atom == p.prev {
		return apperrors.Newf(apperrors.ErrCodeParseRingClosure,
			"ring closure %d bonds atom to itself", n)
	}
	order := BondSingle
	switch {
	case p.pendSet && open.set && p.pendOrder != open.order:
		return apperrors.Newf(apperrors.ErrCodeParseRingClosure,
			"conflicting bond orders on ring closure %d", n)
	case p.pendSet:
		order = p.pendOrder
	case open.set:
		order = open.order
	default:
		order = p.defaultOrder(open.atom, p.prev)
	}
	p.pendSet = false
	p.mol.AddBond(open.atom, p.prev, order)
	return nil
}

// takeOrder resolves the order for the bond about to join a and b,
// consuming any pending bond symbol.
func (p *parser) takeOrder(a, b int) BondOrder {
	if p.pendSet {
		p.pendSet = false
		return p.pendOrder
	}
	return p.defaultOrder(a, b)
}

// defaultOrder is the order of an unwritten bond. Between two aromatic
// atoms it is aromatic; in query mode it is single-or-aromatic.
func (p *parser) defaultOrder(a, b int) BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return BondAromatic
	}
	if p.mode == modeQuery {
		return BondSingleOrAromatic
	}
	return BondSingle
}

func (p *parser) peek() byte {
	if p.pos < len(p.in) {
		return p.in[p.pos]
	}
	return 0
}

func (p *parser) readDigits() int {
	n := 0
	for p.pos < len(p.in) && isDigit(p.in[p.pos]) {
		n = n*10 + int(p.in[p.pos]-'0')
		p.pos++
	}
	return n
}

// readSymbol reads an element symbol inside a bracket: an uppercase letter
// optionally followed by a lowercase one, or a lowercase aromatic symbol.
func (p *parser) readSymbol() string {
	c := p.peek()
	switch {
	case c >= 'A' && c <= 'Z':
		sym := string(c)
		p.pos++
		if n := p.peek(); n >= 'a' && n <= 'z' {
			two := sym + string(n)
			if _, ok := atomicNumbers[two]; ok {
				p.pos++
				return two
			}
		}
		return sym
	case c >= 'a' && c <= 'z':
		sym := string(c)
		p.pos++
		if n := p.peek(); n >= 'a' && n <= 'z' && aromaticSubset[sym+string(n)] {
			p.pos++
			return sym + string(n)
		}
		return sym
	}
	return ""
}

func (p *parser) syntaxErr(why string) error {
	return apperrors.Newf(apperrors.ErrCodeParseSyntax,
		"%s at position %d in %q", why, p.pos, p.in)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
