// Package prep turns raw interaction and measurement tables into the
// inputs of the inference tools: a regulatory network restricted to the
// measured genes, its largest strongly connected component, and the
// measurement tables filtered down to that component.
package prep

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/boolnet/psbn/network"
)

// LoadGeneList reads a gene-name set from a text file, one name per
// line. Blank lines and '#' comments are skipped.
func LoadGeneList(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	genes := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		genes[line] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(genes) == 0 {
		return nil, fmt.Errorf("gene list %q is empty", path)
	}
	return genes, nil
}

// LoadEdgeTable reads a tab-separated interaction table and builds the
// regulatory network induced by the allowed genes. The header must name
// the columns "source", "target", "is_stimulation" and "is_inhibition";
// a stimulation-only edge becomes an activation, an inhibition-only edge
// an inhibition, and an edge that is both or neither keeps an unknown
// sign with no observability requirement. Duplicate edges are merged,
// first occurrence wins.
func LoadEdgeTable(path string, allowed map[string]bool) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header of %q: %v", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"source", "target", "is_stimulation", "is_inhibition"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("edge table %q lacks column %q", path, name)
		}
	}
	net := network.NewNetwork()
	seen := make(map[[2]string]bool)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		src := strings.TrimSpace(record[cols["source"]])
		tgt := strings.TrimSpace(record[cols["target"]])
		if !allowed[src] || !allowed[tgt] {
			continue
		}
		if seen[[2]string{src, tgt}] {
			continue
		}
		seen[[2]string{src, tgt}] = true
		stim := truthy(record[cols["is_stimulation"]])
		inhib := truthy(record[cols["is_inhibition"]])
		reg := network.Regulation{
			Source: net.AddVariable(src),
			Target: net.AddVariable(tgt),
		}
		switch {
		case stim && !inhib:
			reg.Sign = network.Activation
			reg.Observable = true
		case inhib && !stim:
			reg.Sign = network.Inhibition
			reg.Observable = true
		}
		if err := net.AddRegulation(reg); err != nil {
			return nil, err
		}
	}
	if net.NbVars() == 0 {
		return nil, fmt.Errorf("edge table %q has no edges between allowed genes", path)
	}
	return net, nil
}

func truthy(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "1", "true", "True", "TRUE":
		return true
	}
	return false
}

// LargestSCC returns the variable names of the largest strongly
// connected component of the network's regulation graph, sorted. Ties go
// to the component discovered first, which makes the result
// deterministic for a given network.
func LargestSCC(net *network.Network) []string {
	succ := make([][]int, net.NbVars())
	for _, r := range net.Regulations() {
		succ[r.Source] = append(succ[r.Source], r.Target)
	}
	t := &tarjan{succ: succ, index: make([]int, net.NbVars()), low: make([]int, net.NbVars())}
	for v := range t.index {
		t.index[v] = -1
	}
	for v := range t.index {
		if t.index[v] == -1 {
			t.strongconnect(v)
		}
	}
	var best []int
	for _, comp := range t.comps {
		if len(comp) > len(best) {
			best = comp
		}
	}
	names := make([]string, len(best))
	for i, v := range best {
		names[i] = net.Name(v)
	}
	sort.Strings(names)
	return names
}

// tarjan is the classic strongly-connected-component algorithm, with an
// explicit recursion over the regulation graph.
type tarjan struct {
	succ    [][]int
	index   []int
	low     []int
	onStack []bool
	stack   []int
	counter int
	comps   [][]int
}

func (t *tarjan) strongconnect(v int) {
	if t.onStack == nil {
		t.onStack = make([]bool, len(t.succ))
	}
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
	for _, w := range t.succ[v] {
		if t.index[w] == -1 {
			t.strongconnect(w)
			if t.low[w] < t.low[v] {
				t.low[v] = t.low[w]
			}
		} else if t.onStack[w] && t.index[w] < t.low[v] {
			t.low[v] = t.index[w]
		}
	}
	if t.low[v] != t.index[v] {
		return
	}
	var comp []int
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.comps = append(t.comps, comp)
}

// FilterTable copies a tab-separated measurement table, keeping the
// header and the rows whose first-column gene belongs to keep. It
// returns the number of kept rows.
func FilterTable(inPath, outPath string, keep map[string]bool) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("could not open %q: %v", inPath, err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("could not create %q: %v", outPath, err)
	}
	defer out.Close()
	r := csv.NewReader(in)
	r.Comma = '\t'
	w := csv.NewWriter(out)
	w.Comma = '\t'
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("could not read header of %q: %v", inPath, err)
	}
	if err := w.Write(header); err != nil {
		return 0, err
	}
	kept := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if !keep[strings.TrimSpace(record[0])] {
			continue
		}
		if err := w.Write(record); err != nil {
			return 0, err
		}
		kept++
	}
	w.Flush()
	return kept, w.Error()
}

// WriteNetwork writes a network description file.
func WriteNetwork(net *network.Network, path string) error {
	if err := os.WriteFile(path, []byte(net.String()), 0644); err != nil {
		return fmt.Errorf("could not write %q: %v", path, err)
	}
	return nil
}

// WriteGeneList writes a gene-name set, one name per line, sorted.
func WriteGeneList(genes []string, path string) error {
	sorted := make([]string, len(genes))
	copy(sorted, genes)
	sort.Strings(sorted)
	var sb strings.Builder
	for _, g := range sorted {
		sb.WriteString(g)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("could not write %q: %v", path, err)
	}
	return nil
}
