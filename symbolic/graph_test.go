package symbolic

import (
	"strings"
	"testing"

	"github.com/boolnet/psbn/network"
)

// build parses a model, normalizes it and builds its symbolic graph.
func build(t *testing.T, model string) *Graph {
	t.Helper()
	net, err := network.Parse(strings.NewReader(model))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	g, err := New(net.Normalize())
	if err != nil {
		t.Fatalf("could not build symbolic graph: %v", err)
	}
	return g
}

func TestFullySpecifiedToggle(t *testing.T) {
	g := build(t, "$A: !B\n$B: !A\n")
	if card := g.UnitColors().Cardinality(); card.Int64() != 1 {
		t.Errorf("fully specified network should have 1 color, got %s", card)
	}
	fps := g.FixedPoints()
	if card := fps.Cardinality(); card.Int64() != 2 {
		t.Errorf("expected 2 colored fixed points, got %s", card)
	}
	states := fps.Vertices().States()
	if len(states) != 2 {
		t.Fatalf("expected 2 fixed-point states, got %d", len(states))
	}
	got := map[string]bool{}
	for _, st := range states {
		got[st.String()] = true
	}
	if !got["01"] || !got["10"] {
		t.Errorf("expected fixed points 01 and 10, got %v", states)
	}
}

func TestImplicitColorCount(t *testing.T) {
	g := build(t, "A -?? B\nB -?? A\n")
	if card := g.UnitColors().Cardinality(); card.Int64() != 16 {
		t.Errorf("expected 16 colors, got %s", card)
	}
	// every state is a fixed point of exactly one table entry pair,
	// so there are 4 fixed points per table choice of the relevant rows
	fps := g.FixedPoints()
	if fps.IsEmpty() {
		t.Errorf("fixed-point set should not be empty")
	}
	if card := fps.Vertices().Cardinality(); card.Int64() != 4 {
		t.Errorf("every state should be a fixed point under some color, got %s", card)
	}
}

func TestObservableActivationConstrainsColors(t *testing.T) {
	// an observable activation of A by itself leaves a single
	// admissible table, the identity
	g := build(t, "A -> A\n")
	if card := g.UnitColors().Cardinality(); card.Int64() != 1 {
		t.Errorf("expected a single admissible color, got %s", card)
	}
	fps := g.FixedPoints()
	if card := fps.Vertices().Cardinality(); card.Int64() != 2 {
		t.Errorf("identity update should fix both states, got %s", card)
	}
}

func TestObservableInhibitionHasNoFixedPoint(t *testing.T) {
	g := build(t, "A -| A\n")
	if card := g.UnitColors().Cardinality(); card.Int64() != 1 {
		t.Errorf("expected a single admissible color, got %s", card)
	}
	if !g.FixedPoints().IsEmpty() {
		t.Errorf("negation update should have no fixed point")
	}
}

func TestNonObservableActivation(t *testing.T) {
	// without the observability requirement, the two constant tables
	// become admissible as well
	g := build(t, "A ->? A\n")
	if card := g.UnitColors().Cardinality(); card.Int64() != 3 {
		t.Errorf("expected 3 admissible colors, got %s", card)
	}
}

func TestExplicitSignViolation(t *testing.T) {
	net, err := network.Parse(strings.NewReader("B -> A\n$A: !B\n"))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	if _, err := New(net); err == nil {
		t.Errorf("declared activation contradicted by the update function should fail")
	}
	net, err = network.Parse(strings.NewReader("B -> A\n$A: B | !B\n"))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	if _, err := New(net); err == nil {
		t.Errorf("declared observable regulation with a constant update function should fail")
	}
}

func TestSubspaceVertices(t *testing.T) {
	g := build(t, "A -?? B\nB -?? A\n")
	a, _ := g.Network().Index("A")
	sub := g.SubspaceVertices(map[int]bool{a: true})
	if card := sub.Cardinality(); card.Int64() != 2 {
		t.Errorf("subspace A=1 should hold 2 states, got %s", card)
	}
	states := sub.States()
	for _, st := range states {
		if !st[a] {
			t.Errorf("state %v should have A=1", st)
		}
	}
}

func TestPickSubtractPeeling(t *testing.T) {
	g := build(t, "A -?? A\n")
	colors := g.FixedPoints().Colors()
	want := colors.Cardinality().Int64()
	iterations := int64(0)
	for !colors.IsEmpty() {
		singleton := colors.PickSingleton()
		if card := singleton.Cardinality(); card.Int64() != 1 {
			t.Fatalf("picked subset should hold exactly 1 color, got %s", card)
		}
		colors = colors.Minus(singleton)
		iterations++
		if iterations > want {
			t.Fatalf("peeling loop did not shrink the working set")
		}
	}
	if iterations != want {
		t.Errorf("expected exactly %d peeling iterations, got %d", want, iterations)
	}
	if !colors.IsEmpty() {
		t.Errorf("working color set should be empty after peeling")
	}
}

func TestPickOnEmptySet(t *testing.T) {
	g := build(t, "$A: !A\n")
	colors := g.FixedPoints().Colors()
	if !colors.IsEmpty() {
		t.Fatalf("negation update should leave no fixed-point color")
	}
	if _, ok := colors.Pick(); ok {
		t.Errorf("picking from an empty set should report failure")
	}
	if !colors.PickSingleton().IsEmpty() {
		t.Errorf("singleton of an empty set should be empty")
	}
}

func TestTooManyRegulators(t *testing.T) {
	var sb strings.Builder
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M"} {
		sb.WriteString(name + " -?? Z\n")
	}
	net, err := network.Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	if _, err := New(net); err == nil {
		t.Errorf("13 regulators of an implicit variable should exceed the table encoding bound")
	}
}
