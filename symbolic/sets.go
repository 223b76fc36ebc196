package symbolic

import (
	"errors"
	"math/big"
	"strings"

	"github.com/dalzilio/rudd"
)

// A ColoredSet is a symbolic set of (state, color) pairs, typically the
// fixed-point relation of a graph.
type ColoredSet struct {
	g    *Graph
	node rudd.Node
}

// A ColorSet is a symbolic set of colors.
type ColorSet struct {
	g    *Graph
	node rudd.Node
}

// A VertexSet is a symbolic set of states.
type VertexSet struct {
	g    *Graph
	node rudd.Node
}

// A State is one concrete network state, indexed by variable.
type State []bool

// String renders the state as a bit-string in the network variable order.
func (s State) String() string {
	var sb strings.Builder
	for _, b := range s {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// A Color is one concrete choice of all undetermined update functions.
type Color struct {
	g    *Graph
	bits []bool // one bit per parameter level
}

// String renders the color as the truth table of each undetermined
// update function, rows in ascending regulator-value order.
func (c Color) String() string {
	if len(c.g.blocks) == 0 {
		return "fully determined"
	}
	var parts []string
	for _, b := range c.g.blocks {
		var sb strings.Builder
		sb.WriteString(c.g.net.Name(b.variable))
		sb.WriteString(":[")
		for m := 0; m < b.rows; m++ {
			if c.bits[b.first+m-c.g.nstate] {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteString("]")
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, " ")
}

// IsEmpty reports whether the set contains no (state, color) pair.
func (s ColoredSet) IsEmpty() bool { return isFalse(s.node) }

// Cardinality returns the number of (state, color) pairs in the set.
func (s ColoredSet) Cardinality() *big.Int { return s.g.bdd.Satcount(s.node) }

// Colors projects the set to its color component.
func (s ColoredSet) Colors() ColorSet {
	return ColorSet{g: s.g, node: s.g.quantStates(s.node)}
}

// Vertices projects the set to its state component.
func (s ColoredSet) Vertices() VertexSet {
	return VertexSet{g: s.g, node: s.g.quantParams(s.node)}
}

// IntersectVertices restricts the set to pairs whose state belongs to vs.
func (s ColoredSet) IntersectVertices(vs VertexSet) ColoredSet {
	return ColoredSet{g: s.g, node: s.g.bdd.And(s.node, vs.node)}
}

// IntersectColors restricts the set to pairs whose color belongs to cs.
func (s ColoredSet) IntersectColors(cs ColorSet) ColoredSet {
	return ColoredSet{g: s.g, node: s.g.bdd.And(s.node, cs.node)}
}

// IsEmpty reports whether the color set is empty.
func (c ColorSet) IsEmpty() bool { return isFalse(c.node) }

// Cardinality returns the number of colors in the set.
func (c ColorSet) Cardinality() *big.Int {
	return new(big.Int).Rsh(c.g.bdd.Satcount(c.node), uint(c.g.nstate))
}

// Intersect returns the intersection of the two color sets.
func (c ColorSet) Intersect(o ColorSet) ColorSet {
	return ColorSet{g: c.g, node: c.g.bdd.And(c.node, o.node)}
}

// Minus returns the colors of c not present in o.
func (c ColorSet) Minus(o ColorSet) ColorSet {
	return ColorSet{g: c.g, node: c.g.bdd.And(c.node, c.g.bdd.Not(o.node))}
}

// Pick returns one concrete color of the set, or false if the set is
// empty. The choice is deterministic.
func (c ColorSet) Pick() (Color, bool) {
	varset := firstSat(c.g.bdd, c.node)
	if varset == nil {
		return Color{}, false
	}
	bits := make([]bool, c.g.nparam)
	for i := range bits {
		bits[i] = varset[c.g.nstate+i] == 1 // don't-care levels default to 0
	}
	return Color{g: c.g, bits: bits}, true
}

// PickSingleton returns a one-element subset of the color set holding
// the color Pick would return, or the empty set if the set is empty.
// Together with Minus, this is how a symbolic color set is enumerated:
// pick one, process it, subtract it, repeat.
func (c ColorSet) PickSingleton() ColorSet {
	col, ok := c.Pick()
	if !ok {
		return ColorSet{g: c.g, node: c.g.bdd.False()}
	}
	n := c.g.bdd.True()
	for i, b := range col.bits {
		if b {
			n = c.g.bdd.And(n, c.g.bdd.Ithvar(c.g.nstate+i))
		} else {
			n = c.g.bdd.And(n, c.g.bdd.NIthvar(c.g.nstate+i))
		}
	}
	return ColorSet{g: c.g, node: n}
}

// Each calls f on every concrete color of the set, in a deterministic
// order. Enumeration stops at the first error, which is returned.
func (c ColorSet) Each(f func(Color) error) error {
	if c.IsEmpty() {
		return nil
	}
	levels := make([]int, c.g.nparam)
	for i := range levels {
		levels[i] = c.g.nstate + i
	}
	return c.g.bdd.Allsat(func(varset []int) error {
		return expand(varset, levels, func(assignment []int) error {
			bits := make([]bool, c.g.nparam)
			for i, lvl := range levels {
				bits[i] = assignment[lvl] == 1
			}
			return f(Color{g: c.g, bits: bits})
		})
	}, c.node)
}

// IsEmpty reports whether the vertex set is empty.
func (v VertexSet) IsEmpty() bool { return isFalse(v.node) }

// Cardinality returns the number of states in the set.
func (v VertexSet) Cardinality() *big.Int {
	return new(big.Int).Rsh(v.g.bdd.Satcount(v.node), uint(v.g.nparam))
}

// Each calls f on every concrete state of the set, in a deterministic
// order. Enumeration stops at the first error, which is returned.
func (v VertexSet) Each(f func(State) error) error {
	if v.IsEmpty() {
		return nil
	}
	levels := make([]int, v.g.nstate)
	for i := range levels {
		levels[i] = i
	}
	return v.g.bdd.Allsat(func(varset []int) error {
		return expand(varset, levels, func(assignment []int) error {
			st := make(State, v.g.nstate)
			for i := range st {
				st[i] = assignment[i] == 1
			}
			return f(st)
		})
	}, v.node)
}

// States collects every concrete state of the set.
func (v VertexSet) States() []State {
	var states []State
	v.Each(func(s State) error {
		states = append(states, s)
		return nil
	})
	return states
}

// quantStates existentially quantifies the state levels out of a node.
func (g *Graph) quantStates(n rudd.Node) rudd.Node {
	return g.bdd.AndExist(g.stateCube(), n, g.bdd.True())
}

// quantParams existentially quantifies the parameter levels out of a node.
func (g *Graph) quantParams(n rudd.Node) rudd.Node {
	if g.nparam == 0 {
		return n
	}
	return g.bdd.AndExist(g.paramCube(), n, g.bdd.True())
}

// errStop aborts a BDD enumeration that only needs its first result.
var errStop = errors.New("stop")

// firstSat returns the first satisfying assignment of n, with -1 marking
// don't-care levels, or nil if n is unsatisfiable.
func firstSat(b *rudd.BDD, n rudd.Node) []int {
	if isFalse(n) {
		return nil
	}
	var out []int
	b.Allsat(func(varset []int) error {
		out = append([]int(nil), varset...)
		return errStop
	}, n)
	return out
}

// expand branches every don't-care among the given levels into both
// values and calls emit with a fully determined assignment, 0 before 1.
func expand(varset []int, levels []int, emit func([]int) error) error {
	for _, lvl := range levels {
		if varset[lvl] != -1 {
			continue
		}
		branch := append([]int(nil), varset...)
		branch[lvl] = 0
		if err := expand(branch, levels, emit); err != nil {
			return err
		}
		branch[lvl] = 1
		return expand(branch, levels, emit)
	}
	return emit(varset)
}
