// Package pattern holds the scaffold query library and the subgraph matcher
// behind the third classification tier. A pattern is a small query graph in
// an extended SMILES notation; a candidate structure matches when the query
// embeds into its molecular graph.
package pattern

import (
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/chem"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

// Class groups scaffolds by the pharmacological family they flag.
type Class string

const (
	ClassOpioid         Class = "opioid"
	ClassBenzodiazepine Class = "benzodiazepine"
	ClassStimulant      Class = "stimulant"
	ClassCannabinoid    Class = "cannabinoid"
	ClassSedative       Class = "sedative_hypnotic"
	ClassDissociative   Class = "dissociative"
)

// Definition is the source form of a scaffold pattern.
type Definition struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class Class  `json:"class"`
	Query string `json:"query"`
}

// Pattern is a compiled scaffold query ready for matching.
type Pattern struct {
	ID    string
	Name  string
	Class Class
	Query string

	graph *chem.Molecule
	// searchOrder visits query atoms so each one after the first is
	// adjacent to an already-visited atom.
	searchOrder []int
}

// Compile parses def's query and prepares the match plan.
func Compile(def Definition) (*Pattern, error) {
	if def.ID == "" || def.Query == "" {
		return nil, apperrors.New(apperrors.ErrCodePatternInvalidQuery,
			"pattern id and query are required")
	}
	g, err := chem.ParseQuery(def.Query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodePatternCompileFailed,
			"compile pattern "+def.ID)
	}
	return &Pattern{
		ID:          def.ID,
		Name:        def.Name,
		Class:       def.Class,
		Query:       def.Query,
		graph:       g,
		searchOrder: buildSearchOrder(g),
	}, nil
}

// Size returns the number of atoms in the query graph.
func (p *Pattern) Size() int { return p.graph.NumAtoms() }

// buildSearchOrder orders atoms by a BFS from the highest-degree atom.
// Disconnected query fragments are appended in turn.
func buildSearchOrder(g *chem.Molecule) []int {
	n := g.NumAtoms()
	order := make([]int, 0, n)
	seen := make([]bool, n)
	for len(order) < n {
		start := -1
		for i := 0; i < n; i++ {
			if !seen[i] && (start < 0 || g.Degree(i) > g.Degree(start)) {
				start = i
			}
		}
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			order = append(order, cur)
			for _, nb := range g.Neighbors(cur) {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			}
		}
	}
	return order
}
