package prep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boolnet/psbn/network"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("could not write %s: %v", name, err)
	}
	return path
}

const edges = `source	target	is_stimulation	is_inhibition
A	B	1	0
B	C	0	1
C	A	0	0
D	D	1	1
X	A	1	0
A	X	1	0
A	B	0	1
`

func TestLoadEdgeTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "edges.tsv", edges)
	allowed := map[string]bool{"A": true, "B": true, "C": true, "D": true}
	net, err := LoadEdgeTable(path, allowed)
	if err != nil {
		t.Fatalf("could not load edge table: %v", err)
	}
	if net.NbVars() != 4 {
		t.Errorf("expected 4 variables, got %d", net.NbVars())
	}
	regs := net.Regulations()
	if len(regs) != 4 {
		t.Fatalf("expected 4 regulations, got %d", len(regs))
	}
	a, _ := net.Index("A")
	b, _ := net.Index("B")
	d, _ := net.Index("D")
	for _, reg := range regs {
		switch {
		case reg.Source == a && reg.Target == b:
			// the duplicate A->B line is dropped, first occurrence wins
			if reg.Sign != network.Activation || !reg.Observable {
				t.Errorf("A->B should be an observable activation, got %v", reg)
			}
		case reg.Source == d && reg.Target == d:
			if reg.Sign != network.Unknown || reg.Observable {
				t.Errorf("a both-signs edge should keep an unknown non-observable sign, got %v", reg)
			}
		}
	}
}

func TestLoadEdgeTableMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "edges.tsv", "source\ttarget\nA\tB\n")
	if _, err := LoadEdgeTable(path, map[string]bool{"A": true, "B": true}); err == nil {
		t.Errorf("an edge table without sign columns should fail to load")
	}
}

func TestLargestSCC(t *testing.T) {
	net := network.NewNetwork()
	add := func(src, tgt string) {
		reg := network.Regulation{Source: net.AddVariable(src), Target: net.AddVariable(tgt)}
		if err := net.AddRegulation(reg); err != nil {
			t.Fatalf("could not add regulation: %v", err)
		}
	}
	// one 3-cycle, one 2-cycle, one isolated self-loop feeder
	add("A", "B")
	add("B", "C")
	add("C", "A")
	add("D", "E")
	add("E", "D")
	add("F", "A")
	scc := LargestSCC(net)
	if strings.Join(scc, ",") != "A,B,C" {
		t.Errorf("expected largest component A,B,C, got %v", scc)
	}
}

func TestFilterTable(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "obs.tsv", "gene	c1	c2\nA	1	0\nB	0	\nZ	1	1\n")
	out := filepath.Join(dir, "obs_scc.tsv")
	kept, err := FilterTable(in, out, map[string]bool{"A": true, "B": true})
	if err != nil {
		t.Fatalf("could not filter table: %v", err)
	}
	if kept != 2 {
		t.Errorf("expected 2 kept rows, got %d", kept)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("could not read filtered table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "gene") {
		t.Errorf("header should be preserved, got %q", lines[0])
	}
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "Z") {
			t.Errorf("gene Z should have been filtered out")
		}
	}
}

func TestGeneListRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "genes.txt", "# measured genes\nB\nA\n\nC\n")
	genes, err := LoadGeneList(path)
	if err != nil {
		t.Fatalf("could not load gene list: %v", err)
	}
	if len(genes) != 3 {
		t.Errorf("expected 3 genes, got %d", len(genes))
	}
	out := filepath.Join(dir, "out.txt")
	if err := WriteGeneList([]string{"B", "C", "A"}, out); err != nil {
		t.Fatalf("could not write gene list: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("could not read gene list: %v", err)
	}
	if string(content) != "A\nB\nC\n" {
		t.Errorf("gene list should be sorted, got %q", content)
	}
}
