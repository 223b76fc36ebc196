package network

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseRegulations(t *testing.T) {
	const model = `
# toy model
A -> B
B -| A
C -? A
A -|? C
`
	net, err := Parse(strings.NewReader(model))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	if net.NbVars() != 3 {
		t.Errorf("expected 3 variables, got %d", net.NbVars())
	}
	want := []Regulation{
		{Source: 0, Target: 1, Sign: Activation, Observable: true},
		{Source: 1, Target: 0, Sign: Inhibition, Observable: true},
		{Source: 2, Target: 0, Sign: Unknown, Observable: true},
		{Source: 0, Target: 2, Sign: Inhibition, Observable: false},
	}
	regs := net.Regulations()
	if len(regs) != len(want) {
		t.Fatalf("expected %d regulations, got %d", len(want), len(regs))
	}
	for i, reg := range regs {
		if reg != want[i] {
			t.Errorf("regulation %d: expected %v, got %v", i, want[i], reg)
		}
	}
}

func TestParseUpdates(t *testing.T) {
	const model = `
$A: !B & (C | false)
$B: A => C
`
	net, err := Parse(strings.NewReader(model))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	for i, name := range []string{"A", "B", "C"} {
		if net.Name(i) != name {
			t.Errorf("variable %d: expected %q, got %q", i, name, net.Name(i))
		}
	}
	if net.Function(2) != nil {
		t.Errorf("variable C should be implicit")
	}
	f := net.Function(0)
	if f == nil {
		t.Fatalf("variable A should have an update function")
	}
	model1 := map[string]bool{"B": false, "C": true}
	if !f.Eval(model1) {
		t.Errorf("update of A should be true under %v", model1)
	}
	model2 := map[string]bool{"B": true, "C": true}
	if f.Eval(model2) {
		t.Errorf("update of A should be false under %v", model2)
	}
}

func TestParseErrors(t *testing.T) {
	for _, model := range []string{
		"",
		"A -> ",
		"A >> B",
		"A -> B -> C",
		"$A B | C",
		"$A: B |",
		"$A: (B",
		"$A: B B",
		"$A: 2",
		"A -> B\nA -> B",
		"$A: B\n$A: C",
	} {
		if _, err := Parse(strings.NewReader(model)); err == nil {
			t.Errorf("parsing %q should have failed", model)
		}
	}
}

func TestNormalize(t *testing.T) {
	const model = `
A -> B
C -> B
$B: C
`
	net, err := Parse(strings.NewReader(model))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	norm := net.Normalize()
	regs := norm.Regulations()
	if len(regs) != 1 {
		t.Fatalf("expected 1 regulation after normalization, got %d", len(regs))
	}
	c, _ := norm.Index("C")
	b, _ := norm.Index("B")
	if regs[0].Source != c || regs[0].Target != b {
		t.Errorf("expected regulation C -> B, got %s -> %s", norm.Name(regs[0].Source), norm.Name(regs[0].Target))
	}
	// the original network is untouched
	if len(net.Regulations()) != 2 {
		t.Errorf("normalization mutated its receiver")
	}
}

func TestNormalizeAddsRegulators(t *testing.T) {
	net, err := Parse(strings.NewReader("$A: B | C\n"))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	norm := net.Normalize()
	a, _ := norm.Index("A")
	if got := len(norm.Regulators(a)); got != 2 {
		t.Errorf("expected 2 inferred regulators for A, got %d", got)
	}
	for _, reg := range norm.Regulations() {
		if reg.Sign != Unknown || reg.Observable {
			t.Errorf("inferred regulation should be unknown and non-observable, got %v", reg)
		}
	}
}

func TestRestrict(t *testing.T) {
	const model = `
A -> B
B -> C
C -> A
$C: B
`
	net, err := Parse(strings.NewReader(model))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	sub, err := net.Restrict([]string{"B", "C"})
	if err != nil {
		t.Fatalf("could not restrict network: %v", err)
	}
	if sub.NbVars() != 2 {
		t.Errorf("expected 2 variables, got %d", sub.NbVars())
	}
	if len(sub.Regulations()) != 1 {
		t.Errorf("expected 1 regulation, got %d", len(sub.Regulations()))
	}
	c, ok := sub.Index("C")
	if !ok || sub.Function(c) == nil {
		t.Errorf("update function of C should survive the restriction")
	}
	if _, err := net.Restrict([]string{"A", "C"}); err == nil {
		t.Errorf("restricting away B should fail, the update of C depends on it")
	}
	if _, err := net.Restrict([]string{"A", "Z"}); err == nil {
		t.Errorf("restricting to an unknown variable should fail")
	}
}

func TestStringRoundTrip(t *testing.T) {
	const model = `A -> B
B -|? A
$A: !B | (A & B)
`
	net, err := Parse(strings.NewReader(model))
	if err != nil {
		t.Fatalf("could not parse network: %v", err)
	}
	again, err := Parse(strings.NewReader(net.String()))
	if err != nil {
		t.Fatalf("could not re-parse rendered network: %v", err)
	}
	if net.String() != again.String() {
		t.Errorf("rendering is not stable:\n%s\nvs\n%s", net, again)
	}
}

func ExampleParseExpr() {
	e, err := ParseExpr("A & !(B | C)")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(e)
	// Output: A & !(B | C)
}
