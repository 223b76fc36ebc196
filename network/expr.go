package network

import (
	"fmt"
)

// An Expr is a boolean update expression over named network variables.
// The concrete node types are exported so that callers (notably the
// symbolic compiler) can walk the tree with a type switch.
type Expr interface {
	String() string
	// Eval evaluates the expression under the given model.
	// It panics if the model lacks a binding for a variable.
	Eval(model map[string]bool) bool
	addVars(vars map[string]struct{})
}

// A Const is the constant "true" or "false".
type Const bool

func (c Const) String() string {
	if c {
		return "true"
	}
	return "false"
}

func (c Const) Eval(model map[string]bool) bool { return bool(c) }

func (c Const) addVars(vars map[string]struct{}) {}

// A Var is a reference to a network variable.
type Var string

func (v Var) String() string { return string(v) }

func (v Var) Eval(model map[string]bool) bool {
	b, ok := model[string(v)]
	if !ok {
		panic(fmt.Errorf("model lacks binding for variable %s", string(v)))
	}
	return b
}

func (v Var) addVars(vars map[string]struct{}) { vars[string(v)] = struct{}{} }

// A Not is the negation of its operand.
type Not struct {
	X Expr
}

func (n Not) String() string { return "!" + parens(n.X) }

func (n Not) Eval(model map[string]bool) bool { return !n.X.Eval(model) }

func (n Not) addVars(vars map[string]struct{}) { n.X.addVars(vars) }

// An And is the conjunction of its two operands.
type And struct {
	L, R Expr
}

func (a And) String() string { return parens(a.L) + " & " + parens(a.R) }

func (a And) Eval(model map[string]bool) bool { return a.L.Eval(model) && a.R.Eval(model) }

func (a And) addVars(vars map[string]struct{}) {
	a.L.addVars(vars)
	a.R.addVars(vars)
}

// An Or is the disjunction of its two operands.
type Or struct {
	L, R Expr
}

func (o Or) String() string { return parens(o.L) + " | " + parens(o.R) }

func (o Or) Eval(model map[string]bool) bool { return o.L.Eval(model) || o.R.Eval(model) }

func (o Or) addVars(vars map[string]struct{}) {
	o.L.addVars(vars)
	o.R.addVars(vars)
}

// An Imp is the implication of its second operand by its first one.
type Imp struct {
	L, R Expr
}

func (i Imp) String() string { return parens(i.L) + " => " + parens(i.R) }

func (i Imp) Eval(model map[string]bool) bool { return !i.L.Eval(model) || i.R.Eval(model) }

func (i Imp) addVars(vars map[string]struct{}) {
	i.L.addVars(vars)
	i.R.addVars(vars)
}

// An Iff is the equivalence of its two operands.
type Iff struct {
	L, R Expr
}

func (i Iff) String() string { return parens(i.L) + " <=> " + parens(i.R) }

func (i Iff) Eval(model map[string]bool) bool { return i.L.Eval(model) == i.R.Eval(model) }

func (i Iff) addVars(vars map[string]struct{}) {
	i.L.addVars(vars)
	i.R.addVars(vars)
}

// parens wraps compound subexpressions in parentheses so that the
// rendering of any expression parses back to the same tree.
func parens(e Expr) string {
	switch e.(type) {
	case Var, Const, Not:
		return e.String()
	default:
		return "(" + e.String() + ")"
	}
}

// Support returns the set of variable names the expression depends on,
// syntactically.
func Support(e Expr) map[string]struct{} {
	vars := make(map[string]struct{})
	e.addVars(vars)
	return vars
}

// supportOrdered returns the variable names of the expression in order
// of first appearance.
func supportOrdered(e Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case Var:
			if _, ok := seen[string(e)]; !ok {
				seen[string(e)] = struct{}{}
				names = append(names, string(e))
			}
		case Not:
			walk(e.X)
		case And:
			walk(e.L)
			walk(e.R)
		case Or:
			walk(e.L)
			walk(e.R)
		case Imp:
			walk(e.L)
			walk(e.R)
		case Iff:
			walk(e.L)
			walk(e.R)
		}
	}
	walk(e)
	return names
}
