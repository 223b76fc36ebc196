// Package inference implements the core analyses over symbolic
// fixed-point sets: the constraint-relaxation search and the fixed-point
// signature enumeration.
package inference

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/boolnet/psbn/dataset"
	"github.com/boolnet/psbn/symbolic"
)

// A ConstraintUnit is one elementary fact of a specification: the given
// observation binds the given variable. Units are the atoms the
// relaxation search removes.
type ConstraintUnit struct {
	Obs string
	Var string
}

func (u ConstraintUnit) String() string { return fmt.Sprintf("(%s, %s)", u.Obs, u.Var) }

// A Solution is one minimal relaxation: dropping exactly the Dropped
// units from the specification leaves at least one satisfying color, and
// Colors is the full set of them.
type Solution struct {
	Dropped []ConstraintUnit
	Colors  symbolic.ColorSet
}

// A Searcher finds the smallest relaxations of a fixed-point
// specification that some color of the network can satisfy.
//
// A color satisfies a (possibly relaxed) specification when, for every
// observation, at least one of the color's fixed points lies in the
// subspace the observation describes. Different observations may be
// matched by different fixed points of the same color, and one fixed
// point may match several observations.
type Searcher struct {
	Graph *symbolic.Graph
	Fixed symbolic.ColoredSet
	Data  *dataset.Dataset

	Verbose     bool      // print per-level progress and solutions
	PrintColors bool      // additionally enumerate every satisfying color (expensive)
	Out         io.Writer // defaults to os.Stdout
}

// Run tries relaxation levels k = 0, 1, 2, ... until some level yields
// at least one satisfying combination of dropped units, and returns all
// solutions of that level. The returned level is the number of dropped
// units; an empty solution slice means that no level, up to dropping the
// whole specification, admits a satisfying color.
//
// The search is exhaustive within a level: the reported level is minimal
// and every size-k combination with a non-empty color set is reported.
// Complexity is C(total units, k) evaluations, so the search is only
// viable while the minimal level is small.
func (s *Searcher) Run() ([]Solution, int, error) {
	if s.Out == nil {
		s.Out = os.Stdout
	}
	units, err := s.units()
	if err != nil {
		return nil, 0, err
	}
	for k := 0; k <= len(units); k++ {
		if s.Verbose {
			fmt.Fprintf(s.Out, "\nTrying with %d values removed:\n", k)
		}
		if sols := s.level(units, k); len(sols) > 0 {
			return sols, k, nil
		}
	}
	return nil, 0, nil
}

// units lists every constraint unit of the dataset, observations in file
// order and variables in column order, and checks that every constrained
// variable exists in the network.
func (s *Searcher) units() ([]ConstraintUnit, error) {
	var units []ConstraintUnit
	for _, obs := range s.Data.Observations {
		for _, name := range s.Data.Variables {
			if _, ok := obs.Values[name]; !ok {
				continue
			}
			if _, ok := s.Graph.Network().Index(name); !ok {
				return nil, fmt.Errorf("variable %q not found in the network", name)
			}
			units = append(units, ConstraintUnit{Obs: obs.ID, Var: name})
		}
	}
	return units, nil
}

// level evaluates every combination of k dropped units and returns the
// satisfying ones. Each candidate is evaluated against the immutable
// dataset through a drop-set overlay; no relaxed copy of the
// specification is ever built.
func (s *Searcher) level(units []ConstraintUnit, k int) []Solution {
	var sols []Solution
	dropped := make(map[ConstraintUnit]bool, k)
	for c := newCombinations(len(units), k); !c.done; c.advance() {
		for u := range dropped {
			delete(dropped, u)
		}
		drop := make([]ConstraintUnit, k)
		for i, idx := range c.idx {
			drop[i] = units[idx]
			dropped[units[idx]] = true
		}
		colors, ok := s.satisfying(dropped)
		if !ok {
			continue
		}
		sols = append(sols, Solution{Dropped: drop, Colors: colors})
		if s.Verbose {
			s.report(drop, dropped, colors)
		}
	}
	return sols
}

// satisfying computes the colors with one matching fixed point per
// remaining observation: for each observation, the fixed-point set is
// restricted to the observation's subspace and projected to colors, and
// the projections are intersected. An empty running intersection aborts
// the candidate early.
func (s *Searcher) satisfying(dropped map[ConstraintUnit]bool) (symbolic.ColorSet, bool) {
	colors := s.Fixed.Colors()
	for _, obs := range s.Data.Observations {
		subspace := make(map[int]bool)
		for name, value := range obs.Values {
			if dropped[ConstraintUnit{Obs: obs.ID, Var: name}] {
				continue
			}
			v, _ := s.Graph.Network().Index(name)
			subspace[v] = value
		}
		vertices := s.Graph.SubspaceVertices(subspace)
		matched := s.Fixed.IntersectVertices(vertices).Colors()
		colors = colors.Intersect(matched)
		if colors.IsEmpty() {
			return colors, false
		}
	}
	return colors, true
}

// report prints one successful combination.
func (s *Searcher) report(drop []ConstraintUnit, dropped map[ConstraintUnit]bool, colors symbolic.ColorSet) {
	fmt.Fprintf(s.Out, "\tFound matching specification!\n")
	fmt.Fprintf(s.Out, "\t-> Removed values: %v\n", drop)
	fmt.Fprintf(s.Out, "\t-> Matching specification: %s\n", s.relaxedString(dropped))
	fmt.Fprintf(s.Out, "\t-> %s colors satisfy this specification\n", colors.Cardinality())
	if s.PrintColors {
		fmt.Fprintf(s.Out, "\t-> Matching colors:\n")
		colors.Each(func(c symbolic.Color) error {
			fmt.Fprintf(s.Out, "\t---> %s\n", c)
			return nil
		})
	}
	fmt.Fprintln(s.Out)
}

// relaxedString renders the specification as seen through the drop-set
// overlay.
func (s *Searcher) relaxedString(dropped map[ConstraintUnit]bool) string {
	var obsParts []string
	for _, obs := range s.Data.Observations {
		var parts []string
		for _, name := range s.Data.Variables {
			value, ok := obs.Values[name]
			if !ok || dropped[ConstraintUnit{Obs: obs.ID, Var: name}] {
				continue
			}
			bit := "0"
			if value {
				bit = "1"
			}
			parts = append(parts, name+": "+bit)
		}
		obsParts = append(obsParts, obs.ID+": {"+strings.Join(parts, ", ")+"}")
	}
	return strings.Join(obsParts, ", ")
}
