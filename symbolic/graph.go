// Package symbolic implements the colored state-transition abstraction of
// a partially specified boolean network on top of binary decision
// diagrams.
//
// Every variable of the network owns one BDD level; every row of an
// undetermined update-function table owns one more. A color is an
// assignment to the parameter levels, i.e. one concrete choice of all
// undetermined update functions. Sets of states, sets of colors and the
// joint fixed-point relation are all plain BDD nodes wrapped in small
// value types; they are never mutated, every operation derives a new set.
package symbolic

import (
	"fmt"

	"github.com/dalzilio/rudd"

	"github.com/boolnet/psbn/network"
)

// maxImplicitRegulators bounds the truth-table encoding of an
// undetermined update function: a function of k regulators needs 2^k
// parameter levels.
const maxImplicitRegulators = 12

// A paramBlock describes the parameter levels encoding the undetermined
// update function of one implicit variable.
type paramBlock struct {
	variable int   // the implicit variable
	regs     []int // its regulators, ascending
	first    int   // first BDD level of the block
	rows     int   // 1 << len(regs)
}

// A Graph is the symbolic semantics of a partially specified boolean
// network: its BDD universe, the compiled update functions and the unit
// color set (the colors whose function choices respect the declared
// regulation signs and observability requirements).
type Graph struct {
	bdd     *rudd.BDD
	net     *network.Network
	nstate  int
	nparam  int
	blocks  []paramBlock
	updates []rudd.Node // per-variable update function over state and parameter levels
	unit    rudd.Node   // admissible parameter assignments
}

// New builds the symbolic graph of the given network.
func New(net *network.Network) (*Graph, error) {
	nstate := net.NbVars()
	if nstate == 0 {
		return nil, fmt.Errorf("network has no variables")
	}
	g := &Graph{net: net, nstate: nstate}
	for v := 0; v < nstate; v++ {
		if net.Function(v) != nil {
			continue
		}
		regs := net.Regulators(v)
		if len(regs) > maxImplicitRegulators {
			return nil, fmt.Errorf("undetermined update function of %q has %d regulators; the table encoding supports at most %d",
				net.Name(v), len(regs), maxImplicitRegulators)
		}
		g.blocks = append(g.blocks, paramBlock{
			variable: v,
			regs:     regs,
			first:    nstate + g.nparam,
			rows:     1 << len(regs),
		})
		g.nparam += 1 << len(regs)
	}
	bdd, err := rudd.New(nstate+g.nparam, rudd.Nodesize(10000), rudd.Cachesize(5000))
	if err != nil {
		return nil, fmt.Errorf("could not initialize BDD: %v", err)
	}
	g.bdd = bdd
	g.updates = make([]rudd.Node, nstate)
	g.unit = bdd.True()
	for _, b := range g.blocks {
		g.updates[b.variable] = g.compileImplicit(b)
	}
	for _, b := range g.blocks {
		g.unit = bdd.And(g.unit, g.admissible(b))
	}
	for v := 0; v < nstate; v++ {
		f := net.Function(v)
		if f == nil {
			continue
		}
		n, err := g.compile(f)
		if err != nil {
			return nil, err
		}
		g.updates[v] = n
		if err := g.checkExplicit(v, n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Network returns the underlying network.
func (g *Graph) Network() *network.Network { return g.net }

// compile translates an update expression to a BDD over state levels.
func (g *Graph) compile(e network.Expr) (rudd.Node, error) {
	switch e := e.(type) {
	case network.Const:
		if e {
			return g.bdd.True(), nil
		}
		return g.bdd.False(), nil
	case network.Var:
		v, ok := g.net.Index(string(e))
		if !ok {
			return nil, fmt.Errorf("unknown variable %q in update expression", string(e))
		}
		return g.bdd.Ithvar(v), nil
	case network.Not:
		n, err := g.compile(e.X)
		if err != nil {
			return nil, err
		}
		return g.bdd.Not(n), nil
	case network.And:
		return g.compileBin(e.L, e.R, g.and)
	case network.Or:
		return g.compileBin(e.L, e.R, g.or)
	case network.Imp:
		return g.compileBin(e.L, e.R, g.imp)
	case network.Iff:
		return g.compileBin(e.L, e.R, g.iff)
	}
	return nil, fmt.Errorf("unknown expression node %T", e)
}

func (g *Graph) compileBin(l, r network.Expr, op func(a, b rudd.Node) rudd.Node) (rudd.Node, error) {
	a, err := g.compile(l)
	if err != nil {
		return nil, err
	}
	b, err := g.compile(r)
	if err != nil {
		return nil, err
	}
	return op(a, b), nil
}

// compileImplicit builds the table encoding of an undetermined update
// function: the disjunction, over every row of the truth table, of "the
// regulators match the row and the row's parameter bit is set".
func (g *Graph) compileImplicit(b paramBlock) rudd.Node {
	f := g.bdd.False()
	for m := 0; m < b.rows; m++ {
		f = g.bdd.Or(f, g.bdd.And(g.rowCube(b, m), g.bdd.Ithvar(b.first+m)))
	}
	return f
}

// rowCube returns the conjunction of regulator literals selecting row m
// of the block's truth table: bit j of m is the value of regulator j.
func (g *Graph) rowCube(b paramBlock, m int) rudd.Node {
	cube := g.bdd.True()
	for j, r := range b.regs {
		if m&(1<<j) != 0 {
			cube = g.bdd.And(cube, g.bdd.Ithvar(r))
		} else {
			cube = g.bdd.And(cube, g.bdd.NIthvar(r))
		}
	}
	return cube
}

// admissible builds the constraint selecting the parameter assignments
// of a block that respect the declared sign and observability of each
// regulation: an activation (resp. inhibition) makes the table monotone
// non-decreasing (resp. non-increasing) in the regulator, and an
// observable regulation requires at least one row pair where flipping
// the regulator flips the output.
func (g *Graph) admissible(b paramBlock) rudd.Node {
	constraint := g.bdd.True()
	for _, reg := range g.net.Regulations() {
		if reg.Target != b.variable {
			continue
		}
		j := -1
		for i, r := range b.regs {
			if r == reg.Source {
				j = i
			}
		}
		if j < 0 {
			continue
		}
		mono := g.bdd.True()
		observable := g.bdd.False()
		for m := 0; m < b.rows; m++ {
			if m&(1<<j) != 0 {
				continue
			}
			lo := g.bdd.Ithvar(b.first + m)        // row with the regulator at 0
			hi := g.bdd.Ithvar(b.first + (m | 1<<j)) // same row with the regulator at 1
			switch reg.Sign {
			case network.Activation:
				mono = g.bdd.And(mono, g.imp(lo, hi))
			case network.Inhibition:
				mono = g.bdd.And(mono, g.imp(hi, lo))
			}
			observable = g.bdd.Or(observable, g.xor(lo, hi))
		}
		constraint = g.bdd.And(constraint, mono)
		if reg.Observable {
			constraint = g.bdd.And(constraint, observable)
		}
	}
	return constraint
}

// checkExplicit verifies that an explicit update function honours the
// declared sign and observability of its regulations.
func (g *Graph) checkExplicit(v int, f rudd.Node) error {
	for _, reg := range g.net.Regulations() {
		if reg.Target != v {
			continue
		}
		cube := g.bdd.Makeset([]int{reg.Source})
		f0 := g.bdd.AndExist(cube, f, g.bdd.NIthvar(reg.Source))
		f1 := g.bdd.AndExist(cube, f, g.bdd.Ithvar(reg.Source))
		switch reg.Sign {
		case network.Activation:
			if !isFalse(g.bdd.And(f0, g.bdd.Not(f1))) {
				return fmt.Errorf("update function of %q is not monotone increasing in %q, contradicting the declared activation",
					g.net.Name(v), g.net.Name(reg.Source))
			}
		case network.Inhibition:
			if !isFalse(g.bdd.And(f1, g.bdd.Not(f0))) {
				return fmt.Errorf("update function of %q is not monotone decreasing in %q, contradicting the declared inhibition",
					g.net.Name(v), g.net.Name(reg.Source))
			}
		}
		if reg.Observable && isFalse(g.xor(f0, f1)) {
			return fmt.Errorf("update function of %q does not depend on %q, contradicting the declared observable regulation",
				g.net.Name(v), g.net.Name(reg.Source))
		}
	}
	return nil
}

// UnitColors returns the set of all admissible colors.
func (g *Graph) UnitColors() ColorSet {
	return ColorSet{g: g, node: g.unit}
}

// FixedPoints computes the joint (vertex, color) fixed-point relation:
// the pairs such that every variable's update function maps the state to
// itself under the color, restricted to admissible colors.
func (g *Graph) FixedPoints() ColoredSet {
	n := g.unit
	for v := 0; v < g.nstate; v++ {
		n = g.bdd.And(n, g.iff(g.bdd.Ithvar(v), g.updates[v]))
	}
	return ColoredSet{g: g, node: n}
}

// SubspaceVertices returns the set of states agreeing with the given
// partial assignment (variable index to value); unmentioned variables
// are free.
func (g *Graph) SubspaceVertices(values map[int]bool) VertexSet {
	n := g.bdd.True()
	for v := 0; v < g.nstate; v++ {
		val, ok := values[v]
		if !ok {
			continue
		}
		if val {
			n = g.bdd.And(n, g.bdd.Ithvar(v))
		} else {
			n = g.bdd.And(n, g.bdd.NIthvar(v))
		}
	}
	return VertexSet{g: g, node: n}
}

// Derived connectives; the underlying library only needs to provide
// conjunction, disjunction and negation.

func (g *Graph) and(a, b rudd.Node) rudd.Node { return g.bdd.And(a, b) }

func (g *Graph) or(a, b rudd.Node) rudd.Node { return g.bdd.Or(a, b) }

func (g *Graph) imp(a, b rudd.Node) rudd.Node { return g.bdd.Or(g.bdd.Not(a), b) }

func (g *Graph) iff(a, b rudd.Node) rudd.Node {
	return g.bdd.Or(g.bdd.And(a, b), g.bdd.And(g.bdd.Not(a), g.bdd.Not(b)))
}

func (g *Graph) xor(a, b rudd.Node) rudd.Node {
	return g.bdd.Or(g.bdd.And(a, g.bdd.Not(b)), g.bdd.And(g.bdd.Not(a), b))
}

// isFalse reports whether a node is the constant False, whose address is
// 0 by convention.
func isFalse(n rudd.Node) bool { return n == nil || *n == 0 }

// stateCube returns the cube of all state levels.
func (g *Graph) stateCube() rudd.Node {
	levels := make([]int, g.nstate)
	for i := range levels {
		levels[i] = i
	}
	return g.bdd.Makeset(levels)
}

// paramCube returns the cube of all parameter levels.
func (g *Graph) paramCube() rudd.Node {
	levels := make([]int, g.nparam)
	for i := range levels {
		levels[i] = g.nstate + i
	}
	return g.bdd.Makeset(levels)
}
