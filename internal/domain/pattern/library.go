package pattern

import (
	"sync"

	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Library is an immutable set of compiled patterns keyed by ID.
type Library struct {
	patterns []*Pattern
	byID     map[string]*Pattern
}

// NewLibrary compiles defs into a Library. IDs must be unique and the set
// must not be empty.
func NewLibrary(defs []Definition) (*Library, error) {
	if len(defs) == 0 {
		return nil, apperrors.New(apperrors.ErrCodePatternLibraryEmpty,
			"scaffold library has no patterns")
	}
	lib := &Library{byID: make(map[string]*Pattern, len(defs))}
	for _, def := range defs {
		p, err := Compile(def)
		if err != nil {
			return nil, err
		}
		if _, dup := lib.byID[p.ID]; dup {
			return nil, apperrors.Newf(apperrors.ErrCodePatternDuplicateID,
				"duplicate pattern id %q", p.ID)
		}
		lib.byID[p.ID] = p
		lib.patterns = append(lib.patterns, p)
	}
	return lib, nil
}

// Patterns returns the compiled patterns in definition order. The slice is
// owned by the library.
func (l *Library) Patterns() []*Pattern { return l.patterns }

// Get looks a pattern up by ID.
func (l *Library) Get(id string) (*Pattern, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// Len returns the pattern count.
func (l *Library) Len() int { return len(l.patterns) }

var (
	builtinOnce sync.Once
	builtinLib  *Library
)

// Builtin returns the built-in regulatory scaffold library. The definitions
// are compiled once; a compile failure here is a programming error.
func Builtin() *Library {
	builtinOnce.Do(func() {
		lib, err := NewLibrary(BuiltinDefinitions())
		if err != nil {
			panic(err)
		}
		builtinLib = lib
	})
	return builtinLib
}

// BuiltinDefinitions returns the source definitions of the built-in library.
func BuiltinDefinitions() []Definition {
	return []Definition{
		// opioid scaffolds
		{ID: "OPI-001", Name: "4-anilidopiperidine", Class: ClassOpioid,
			Query: "O=CN(c1ccccc1)C1CCNCC1"},
		{ID: "OPI-002", Name: "N-phenethyl ring amine", Class: ClassOpioid,
			Query: "c1ccccc1CC[NR]"},
		{ID: "OPI-003", Name: "4-phenylpiperidine", Class: ClassOpioid,
			Query: "c1ccccc1C2CCNCC2"},
		{ID: "OPI-004", Name: "diphenylpropylamine", Class: ClassOpioid,
			Query: "c1ccccc1C(c2ccccc2)CCN"},
		{ID: "OPI-005", Name: "anilinopiperidine", Class: ClassOpioid,
			Query: "c1ccccc1NC2CCNCC2"},
		{ID: "OPI-006", Name: "cyclohexyl benzamide", Class: ClassOpioid,
			Query: "O=C(NC1CCCCC1N)c2ccccc2"},
		{ID: "OPI-007", Name: "2-benzylbenzimidazole", Class: ClassOpioid,
			Query: "C(c1ccccc1)c2nc3ccccc3n2"},
		{ID: "OPI-008", Name: "phenylmorphan", Class: ClassOpioid,
			Query: "c1ccccc1C23CCNCC2CCC3"},

		// benzodiazepine scaffolds
		{ID: "BZD-001", Name: "1,4-benzodiazepin-2-one", Class: ClassBenzodiazepine,
			Query: "O=C1CN=C(c2ccccc2)c3ccccc3N1"},
		{ID: "BZD-002", Name: "triazolobenzodiazepine", Class: ClassBenzodiazepine,
			Query: "c1nnc2CN=C(c3ccccc3)c4ccccc4n12"},
		{ID: "BZD-003", Name: "thienodiazepinone", Class: ClassBenzodiazepine,
			Query: "O=C1CN=C(c2ccccc2)c3sccc3N1"},
		{ID: "BZD-004", Name: "imidazobenzodiazepine", Class: ClassBenzodiazepine,
			Query: "C1N=C(c2ccccc2)c3ccccc3n4ccnc14"},
		{ID: "BZD-005", Name: "2-aminobenzophenone", Class: ClassBenzodiazepine,
			Query: "Nc1ccccc1C(=O)c2ccccc2"},
		{ID: "BZD-006", Name: "benzodiazepine core", Class: ClassBenzodiazepine,
			Query: "C1CN=Cc2ccccc2N1"},

		// stimulant scaffolds
		{ID: "STI-001", Name: "phenethylamine", Class: ClassStimulant,
			Query: "NCCc1ccccc1"},
		{ID: "STI-002", Name: "amphetamine", Class: ClassStimulant,
			Query: "CC(N)Cc1ccccc1"},
		{ID: "STI-003", Name: "methamphetamine", Class: ClassStimulant,
			Query: "CNC(C)Cc1ccccc1"},
		{ID: "STI-004", Name: "cathinone", Class: ClassStimulant,
			Query: "CC(N)C(=O)c1ccccc1"},
		{ID: "STI-005", Name: "benzodioxole", Class: ClassStimulant,
			Query: "C1Oc2ccccc2O1"},
		{ID: "STI-006", Name: "tropane", Class: ClassStimulant,
			Query: "CN1C2CCC1CC2"},
		{ID: "STI-007", Name: "phenidate", Class: ClassStimulant,
			Query: "OC(=O)C(c1ccccc1)C2CCCCN2"},

		// cannabinoid scaffolds
		{ID: "CNB-001", Name: "benzochromene", Class: ClassCannabinoid,
			Query: "O1CCCc2ccccc12"},
		{ID: "CNB-002", Name: "naphthoylindole", Class: ClassCannabinoid,
			Query: "O=C(c1ccc2ccccc2c1)c3cnc4ccccc34"},
		{ID: "CNB-003", Name: "indazole-3-carboxamide", Class: ClassCannabinoid,
			Query: "NC(=O)c1nnc2ccccc12"},
		{ID: "CNB-004", Name: "2-cyclohexylphenol", Class: ClassCannabinoid,
			Query: "Oc1ccccc1C2CCCCC2"},
		{ID: "CNB-005", Name: "alkylresorcinol", Class: ClassCannabinoid,
			Query: "Oc1cc(O)cc(CCC)c1"},
		{ID: "CNB-006", Name: "benzoylindole", Class: ClassCannabinoid,
			Query: "O=C(c1ccccc1)c2cnc3ccccc23"},

		// sedative and hypnotic scaffolds
		{ID: "SED-001", Name: "barbiturate", Class: ClassSedative,
			Query: "O=C1NC(=O)NC(=O)C1"},
		{ID: "SED-002", Name: "imidazopyridine", Class: ClassSedative,
			Query: "c1ccn2ccnc2c1"},
		{ID: "SED-003", Name: "quinazolinone", Class: ClassSedative,
			Query: "O=c1ncnc2ccccc12"},
		{ID: "SED-004", Name: "carbamate ester", Class: ClassSedative,
			Query: "NC(=O)OC"},
		{ID: "SED-005", Name: "gamma-butyrolactone", Class: ClassSedative,
			Query: "O=C1CCCO1"},

		// dissociative and hallucinogen scaffolds
		{ID: "DIS-001", Name: "arylcyclohexylamine", Class: ClassDissociative,
			Query: "NC1(c2ccccc2)CCCCC1"},
		{ID: "DIS-002", Name: "arylcyclohexanone amine", Class: ClassDissociative,
			Query: "NC1(c2ccccc2)CCCCC1=O"},
		{ID: "DIS-003", Name: "tryptamine", Class: ClassDissociative,
			Query: "NCCc1cnc2ccccc12"},
		{ID: "DIS-004", Name: "dimethoxyphenethylamine", Class: ClassDissociative,
			Query: "NCCc1cc(OC)ccc1OC"},
		{ID: "DIS-005", Name: "N-benzylphenethylamine", Class: ClassDissociative,
			Query: "c1ccccc1CNCCc2ccccc2"},
	}
}
