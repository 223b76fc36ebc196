package network

import (
	"fmt"
	"sort"
	"strings"
)

// A Sign is the monotonicity of a regulation.
type Sign int8

// The three possible regulation signs.
const (
	Unknown Sign = iota
	Activation
	Inhibition
)

func (s Sign) String() string {
	switch s {
	case Activation:
		return "activation"
	case Inhibition:
		return "inhibition"
	default:
		return "unknown"
	}
}

// arrow returns the textual form of a regulation with the given sign and
// observability, e.g. "->" or "-|?".
func arrow(s Sign, observable bool) string {
	var a string
	switch s {
	case Activation:
		a = "->"
	case Inhibition:
		a = "-|"
	default:
		a = "-?"
	}
	if !observable {
		a += "?"
	}
	return a
}

// A Regulation states that variable Source regulates variable Target.
// When Observable is true, every admissible update function of Target
// must actually depend on Source.
type Regulation struct {
	Source, Target int
	Sign           Sign
	Observable     bool
}

// A Network is a partially specified boolean network: a set of named
// variables, a set of regulations between them and, for some variables,
// an explicit update expression. Variables without an explicit update
// expression are implicit: their update function is undetermined, and
// each admissible choice of functions corresponds to one color of the
// network's symbolic semantics.
//
// A Network is immutable once built: Normalize and Restrict return new
// networks and never touch the receiver.
type Network struct {
	names []string
	index map[string]int
	regs  []Regulation
	funcs []Expr // indexed by variable, nil for implicit variables
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{index: make(map[string]int)}
}

// NbVars returns the number of variables of the network.
func (n *Network) NbVars() int { return len(n.names) }

// Name returns the name of the given variable.
func (n *Network) Name(v int) string { return n.names[v] }

// Names returns the names of all variables, in declaration order.
// This order is the fixed variable ordering used for state bit-strings.
func (n *Network) Names() []string {
	names := make([]string, len(n.names))
	copy(names, n.names)
	return names
}

// Index returns the index of the variable with the given name.
func (n *Network) Index(name string) (int, bool) {
	v, ok := n.index[name]
	return v, ok
}

// Regulations returns all regulations, in declaration order.
func (n *Network) Regulations() []Regulation {
	regs := make([]Regulation, len(n.regs))
	copy(regs, n.regs)
	return regs
}

// Regulators returns the variables regulating v, in ascending index order.
func (n *Network) Regulators(v int) []int {
	var regs []int
	for _, r := range n.regs {
		if r.Target == v {
			regs = append(regs, r.Source)
		}
	}
	sort.Ints(regs)
	return regs
}

// Function returns the explicit update expression of v, or nil if v is
// implicit.
func (n *Network) Function(v int) Expr { return n.funcs[v] }

// AddVariable declares a variable and returns its index. Declaring the
// same name twice returns the original index.
func (n *Network) AddVariable(name string) int {
	if v, ok := n.index[name]; ok {
		return v
	}
	v := len(n.names)
	n.names = append(n.names, name)
	n.index[name] = v
	n.funcs = append(n.funcs, nil)
	return v
}

// AddRegulation adds a regulation between two declared variables.
func (n *Network) AddRegulation(reg Regulation) error {
	for _, r := range n.regs {
		if r.Source == reg.Source && r.Target == reg.Target {
			return fmt.Errorf("duplicate regulation %s %s %s",
				n.names[reg.Source], arrow(reg.Sign, reg.Observable), n.names[reg.Target])
		}
	}
	n.regs = append(n.regs, reg)
	return nil
}

// SetFunction sets the explicit update expression of a variable.
func (n *Network) SetFunction(v int, e Expr) error {
	if n.funcs[v] != nil {
		return fmt.Errorf("duplicate update function for variable %q", n.names[v])
	}
	n.funcs[v] = e
	return nil
}

// clone returns a deep-enough copy of the network (expressions are
// shared, they are never mutated).
func (n *Network) clone() *Network {
	c := &Network{
		names: make([]string, len(n.names)),
		index: make(map[string]int, len(n.index)),
		regs:  make([]Regulation, len(n.regs)),
		funcs: make([]Expr, len(n.funcs)),
	}
	copy(c.names, n.names)
	copy(c.regs, n.regs)
	copy(c.funcs, n.funcs)
	for name, v := range n.index {
		c.index[name] = v
	}
	return c
}

// Normalize reconciles the regulation graph with the explicit update
// expressions, the way a valid update structure is inferred from a raw
// model description: for every explicit function, variables appearing in
// the expression but not declared as regulators are added as regulators
// with unknown sign and no observability requirement, while declared
// regulations whose source the expression never mentions are dropped.
// Implicit variables keep their declared regulators untouched.
//
// Semantic consistency of declared signs with explicit functions is not
// checked here; it is checked when the symbolic graph is built.
func (n *Network) Normalize() *Network {
	c := n.clone()
	var regs []Regulation
	for _, r := range c.regs {
		f := c.funcs[r.Target]
		if f == nil {
			regs = append(regs, r)
			continue
		}
		if _, ok := Support(f)[c.names[r.Source]]; ok {
			regs = append(regs, r)
		}
	}
	for v, f := range c.funcs {
		if f == nil {
			continue
		}
		for _, name := range supportOrdered(f) {
			src, ok := c.index[name]
			if !ok {
				// an undeclared variable in an expression is reported
				// when the symbolic graph is built
				continue
			}
			declared := false
			for _, r := range regs {
				if r.Source == src && r.Target == v {
					declared = true
					break
				}
			}
			if !declared {
				regs = append(regs, Regulation{Source: src, Target: v})
			}
		}
	}
	c.regs = regs
	return c
}

// Restrict returns the sub-network induced by the given variable names,
// preserving the original variable order. Regulations with an endpoint
// outside the subset are dropped. An explicit update expression that
// depends on a removed variable makes the restriction fail.
func (n *Network) Restrict(keep []string) (*Network, error) {
	kept := make(map[int]bool, len(keep))
	for _, name := range keep {
		v, ok := n.index[name]
		if !ok {
			return nil, fmt.Errorf("cannot restrict: unknown variable %q", name)
		}
		kept[v] = true
	}
	c := NewNetwork()
	remap := make(map[int]int, len(kept))
	for v, name := range n.names {
		if kept[v] {
			remap[v] = c.AddVariable(name)
		}
	}
	for _, r := range n.regs {
		if kept[r.Source] && kept[r.Target] {
			r.Source, r.Target = remap[r.Source], remap[r.Target]
			if err := c.AddRegulation(r); err != nil {
				return nil, err
			}
		}
	}
	for v, f := range n.funcs {
		if f == nil || !kept[v] {
			continue
		}
		for name := range Support(f) {
			if !kept[n.index[name]] {
				return nil, fmt.Errorf("cannot restrict: update function of %q depends on removed variable %q",
					n.names[v], name)
			}
		}
		if err := c.SetFunction(remap[v], f); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// String renders the network in its text format: regulations in
// declaration order, then update expressions in variable order.
func (n *Network) String() string {
	var sb strings.Builder
	for _, r := range n.regs {
		fmt.Fprintf(&sb, "%s %s %s\n", n.names[r.Source], arrow(r.Sign, r.Observable), n.names[r.Target])
	}
	for v, f := range n.funcs {
		if f != nil {
			fmt.Fprintf(&sb, "$%s: %s\n", n.names[v], f)
		}
	}
	return sb.String()
}
